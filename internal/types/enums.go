package types

type DependencyType string

const (
	DependencyTypeSystem DependencyType = "system"
	DependencyTypePython DependencyType = "python"
)

type DescriptorKind string

const (
	DescriptorKindPackage DescriptorKind = "package"
)

type InstallerKind string

const (
	InstallerKindSetupPy InstallerKind = "setup.py"
)

type Compression string

const (
	CompressionZstd Compression = "zstd"
	CompressionXz   Compression = "xz"
	CompressionGzip Compression = "gzip"
)

type ConstraintOp string

const (
	ConstraintOpNone   ConstraintOp = ""
	ConstraintOpEq     ConstraintOp = "="
	ConstraintOpEq2    ConstraintOp = "=="
	ConstraintOpNe     ConstraintOp = "!="
	ConstraintOpCompat ConstraintOp = "~="
	ConstraintOpGte    ConstraintOp = ">="
	ConstraintOpLte    ConstraintOp = "<="
	ConstraintOpGt     ConstraintOp = ">"
	ConstraintOpLt     ConstraintOp = "<"
)
