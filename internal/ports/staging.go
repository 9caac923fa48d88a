package ports

// StagingPort performs filesystem operations inside the staging root.
// Callers are responsible for resolving paths through the staging policy
// before handing them to this port.
type StagingPort interface {
	// EnsureDir creates a directory recursively; no-op when present.
	EnsureDir(path string) error

	// CopyFile copies src to dst byte-for-byte, truncating any existing
	// file at dst.
	CopyFile(src string, dst string) error

	// MarkExecutable adds owner/group/other execute bits to every
	// regular file directly inside dir.
	MarkExecutable(dir string) error

	// TreeSize returns the cumulative size in bytes of all regular
	// files under root.
	TreeSize(root string) (int64, error)
}
