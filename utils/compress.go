package utils

import (
	"compress/bzip2"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"golang.org/x/xerrors"
)

// Decompress wraps r with a decompressor chosen by the extension of name.
// Unknown extensions are returned as they are.
func Decompress(r io.Reader, name string) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, xerrors.Errorf("failed to create gzip reader: %w", err)
		}
		return gr, nil
	case ".bz2":
		return io.NopCloser(bzip2.NewReader(r)), nil
	case ".xz":
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, xerrors.Errorf("failed to create xz reader: %w", err)
		}
		return io.NopCloser(xr), nil
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, xerrors.Errorf("failed to create zstd reader: %w", err)
		}
		return zr.IOReadCloser(), nil
	}
	return io.NopCloser(r), nil
}
