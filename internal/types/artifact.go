package types

// ArchiveInfo describes a produced package artifact.
type ArchiveInfo struct {
	Path      string
	Size      int64
	SHA256    string
	Files     int
	Signature string
}

// PkgInfo is the decoded .PKGINFO metadata of a package artifact.
type PkgInfo struct {
	Name         string
	Version      string
	Description  string
	URL          string
	License      string
	Architecture string
	Packager     string
	BuildDate    string
	Size         int64
	Dependencies []string
	Backup       []string
}
