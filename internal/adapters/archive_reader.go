package adapters

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"monpkg/internal/ports"
)

type ArchiveReaderAdapter struct{}

func NewArchiveReaderAdapter() ArchiveReaderAdapter {
	return ArchiveReaderAdapter{}
}

// ReadPkgInfo extracts the .PKGINFO entry and counts the regular file
// members of a package artifact. Compression is detected from the file
// name suffix.
func (a ArchiveReaderAdapter) ReadPkgInfo(path string) ([]byte, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("artifact not found").
			WithCause(err)
	}
	defer f.Close()

	var tr *tar.Reader
	switch {
	case strings.HasSuffix(path, ".pkg.tar.zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, 0, decodeError(err)
		}
		defer zr.Close()
		tr = tar.NewReader(zr)
	case strings.HasSuffix(path, ".pkg.tar.xz"):
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, 0, decodeError(err)
		}
		tr = tar.NewReader(xr)
	case strings.HasSuffix(path, ".pkg.tar.gz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, 0, decodeError(err)
		}
		defer gr.Close()
		tr = tar.NewReader(gr)
	case strings.HasSuffix(path, ".pkg.tar"):
		tr = tar.NewReader(f)
	default:
		return nil, 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported artifact format: %s", filepath.Base(path)))
	}

	var pkginfo []byte
	files := 0
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, decodeError(err)
		}
		if header.Name == pkgInfoEntry {
			data, err := io.ReadAll(tr)
			if err != nil {
				return nil, 0, decodeError(err)
			}
			pkginfo = data
			continue
		}
		if header.Typeflag == tar.TypeReg {
			files++
		}
	}
	if pkginfo == nil {
		return nil, 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("artifact has no .PKGINFO")
	}
	return pkginfo, files, nil
}

func decodeError(err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to read artifact").
		WithCause(err)
}

var _ ports.ArchiveReaderPort = ArchiveReaderAdapter{}
