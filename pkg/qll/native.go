// SPDX-License-Identifier: MPL-2.0

package qll

import (
	"archive/zip"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/qilletni/toolchain/pkg/qlerr"
)

// NativeFileName returns the staged file name for the native artifact of the
// archive at archivePath: its base name with the extension replaced by .jar.
func NativeFileName(archivePath string) string {
	base := filepath.Base(archivePath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".jar"
}

// ExtractNative copies the archive's native artifact into stagingDir.
// It returns ok == false with a nil error when the archive has none.
func ExtractNative(archivePath, stagingDir string) (staged string, ok bool, err error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", false, qlerr.IO("open archive", archivePath, err)
	}
	defer func() {
		if closeErr := zr.Close(); closeErr != nil && err == nil {
			err = qlerr.IO("close archive", archivePath, closeErr)
		}
	}()

	f, err := zr.Open(NativeEntry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, qlerr.IO("open entry", archivePath+"!"+NativeEntry, err)
	}
	defer f.Close()

	staged = filepath.Join(stagingDir, NativeFileName(archivePath))
	if err := writeFile(staged, f); err != nil {
		return "", false, err
	}
	return staged, true, nil
}
