package ports

import (
	"time"

	"monpkg/internal/types"
)

// ArchiveWriterPort archives a staged tree into a package artifact with
// a leading .PKGINFO entry.
type ArchiveWriterPort interface {
	Write(root string, pkginfo []byte, dest string, compression types.Compression, buildTime time.Time) (types.ArchiveInfo, error)
}

// ArchiveReaderPort extracts the .PKGINFO entry and file count from a
// package artifact.
type ArchiveReaderPort interface {
	ReadPkgInfo(path string) ([]byte, int, error)
}
