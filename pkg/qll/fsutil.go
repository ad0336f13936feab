// SPDX-License-Identifier: MPL-2.0

package qll

import (
	"io"
	"os"
	"path/filepath"

	"github.com/qilletni/toolchain/pkg/qlerr"
)

// CopyFile copies src to dst, creating dst's parent directory. A partially
// written dst is removed on failure.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return qlerr.IO("open", src, err)
	}
	defer in.Close()

	return writeFile(dst, in)
}

// writeFile streams r into a new file at dst.
func writeFile(dst string, r io.Reader) (err error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return qlerr.IO("mkdir", filepath.Dir(dst), err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return qlerr.IO("create", dst, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = qlerr.IO("close", dst, closeErr)
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err := io.Copy(out, r); err != nil {
		return qlerr.IO("write", dst, err)
	}
	return nil
}
