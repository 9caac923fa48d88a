package adapters

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"monpkg/internal/ports"
	"monpkg/internal/types"
)

const pkgInfoEntry = ".PKGINFO"

// DefaultCompression is the compression used when the caller does not
// pick one.
const DefaultCompression = types.CompressionZstd

// ArchiveExtension returns the artifact file extension for a
// compression kind.
func ArchiveExtension(compression types.Compression) (string, error) {
	switch compression {
	case types.CompressionZstd:
		return "pkg.tar.zst", nil
	case types.CompressionXz:
		return "pkg.tar.xz", nil
	case types.CompressionGzip:
		return "pkg.tar.gz", nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported compression: %s", compression))
	}
}

type ArchiveWriterAdapter struct{}

func NewArchiveWriterAdapter() ArchiveWriterAdapter {
	return ArchiveWriterAdapter{}
}

// Write archives the staged tree into dest with a leading .PKGINFO
// entry. Member order follows the lexical directory walk, so two runs
// over the same tree produce the same member sequence.
func (a ArchiveWriterAdapter) Write(root string, pkginfo []byte, dest string, compression types.Compression, buildTime time.Time) (types.ArchiveInfo, error) {
	if strings.TrimSpace(root) == "" {
		return types.ArchiveInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("staging root is empty")
	}
	out, err := os.Create(dest)
	if err != nil {
		return types.ArchiveInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create artifact file").
			WithCause(err)
	}
	defer out.Close()

	compressor, err := newCompressor(out, compression)
	if err != nil {
		return types.ArchiveInfo{}, err
	}
	tw := tar.NewWriter(compressor)

	files, err := writeMembers(tw, root, pkginfo, buildTime)
	if err != nil {
		tw.Close()
		compressor.Close()
		return types.ArchiveInfo{}, err
	}
	if err := tw.Close(); err != nil {
		compressor.Close()
		return types.ArchiveInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to finalize archive").
			WithCause(err)
	}
	if err := compressor.Close(); err != nil {
		return types.ArchiveInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to finalize compression").
			WithCause(err)
	}
	if err := out.Close(); err != nil {
		return types.ArchiveInfo{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to close artifact file").
			WithCause(err)
	}

	size, digest, err := checksumFile(dest)
	if err != nil {
		return types.ArchiveInfo{}, err
	}
	return types.ArchiveInfo{
		Path:   dest,
		Size:   size,
		SHA256: digest,
		Files:  files,
	}, nil
}

func newCompressor(w io.Writer, compression types.Compression) (io.WriteCloser, error) {
	switch compression {
	case types.CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create zstd writer").
				WithCause(err)
		}
		return zw, nil
	case types.CompressionXz:
		xw, err := xz.NewWriter(w)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create xz writer").
				WithCause(err)
		}
		return xw, nil
	case types.CompressionGzip:
		return gzip.NewWriter(w), nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported compression: %s", compression))
	}
}

// writeMembers emits the .PKGINFO entry followed by the staged tree and
// returns the number of regular file members written from the tree.
func writeMembers(tw *tar.Writer, root string, pkginfo []byte, buildTime time.Time) (int, error) {
	header := &tar.Header{
		Name:    pkgInfoEntry,
		Mode:    0o644,
		Size:    int64(len(pkginfo)),
		ModTime: buildTime,
	}
	if err := tw.WriteHeader(header); err != nil {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write .PKGINFO header").
			WithCause(err)
	}
	if _, err := tw.Write(pkginfo); err != nil {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write .PKGINFO").
			WithCause(err)
	}

	files := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if d.IsDir() {
			header.Name += "/"
			return tw.WriteHeader(header)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		if _, err := io.Copy(tw, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		files++
		return nil
	})
	if err != nil {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to archive staged tree").
			WithCause(err)
	}
	return files, nil
}

var _ ports.ArchiveWriterPort = ArchiveWriterAdapter{}
