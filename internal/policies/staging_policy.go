package policies

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// ServiceControlDir is the staging-root-relative directory that holds
// init scripts for the OS service manager.
const ServiceControlDir = "etc/rc.d"

// ScriptMode is the mode applied to files in the service-control
// directory.
const ScriptMode fs.FileMode = 0o755

// StagingPolicy confines all produced paths to a single staging root.
// Nothing may be written outside the root for the duration of a build.
type StagingPolicy struct {
	Root string
}

func NewStagingPolicy(root string) (StagingPolicy, error) {
	trimmed := strings.TrimSpace(root)
	if trimmed == "" {
		return StagingPolicy{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("staging root is required")
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return StagingPolicy{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to resolve staging root").
			WithCause(err)
	}
	return StagingPolicy{Root: abs}, nil
}

// Resolve joins rel onto the root and verifies the result stays inside
// it, rejecting absolute paths and traversal escapes.
func (p StagingPolicy) Resolve(rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("path must be relative to the staging root: %s", rel))
	}
	joined := filepath.Join(p.Root, rel)
	if joined != p.Root && !strings.HasPrefix(joined, p.Root+string(filepath.Separator)) {
		return "", errbuilder.New().
			WithCode(errbuilder.CodePermissionDenied).
			WithMsg(fmt.Sprintf("path escapes the staging root: %s", rel))
	}
	return joined, nil
}

// ServiceDir returns the absolute service-control directory under the
// root.
func (p StagingPolicy) ServiceDir() (string, error) {
	return p.Resolve(ServiceControlDir)
}
