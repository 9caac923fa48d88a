package ports

import "context"

// InstallerPort delegates installation of a payload source tree to the
// tree's own install procedure, targeting the staging root.
type InstallerPort interface {
	Install(ctx context.Context, sourceDir string, stagingRoot string, optimize int) error
}
