// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/qilletni/toolchain/cmd/qilletni"

func main() {
	cmd.Execute()
}
