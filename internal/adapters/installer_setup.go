package adapters

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"monpkg/internal/ports"
	"monpkg/internal/shared"
)

const defaultPython = "python2"

// SetupInstallerAdapter runs a payload tree's own setup.py installer
// against the staging root. The install procedure is owned entirely by
// the payload tree; this adapter only points it at the root and forwards
// the optimize level.
type SetupInstallerAdapter struct {
	Python string
}

func NewSetupInstallerAdapter(python string) SetupInstallerAdapter {
	if strings.TrimSpace(python) == "" {
		python = defaultPython
	}
	return SetupInstallerAdapter{Python: python}
}

func (a SetupInstallerAdapter) Install(ctx context.Context, sourceDir string, stagingRoot string, optimize int) error {
	if strings.TrimSpace(sourceDir) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("source directory is empty")
	}
	if strings.TrimSpace(stagingRoot) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("staging root is empty")
	}
	if _, err := os.Stat(filepath.Join(sourceDir, "setup.py")); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("source tree has no setup.py").
			WithCause(err)
	}
	root, err := filepath.Abs(stagingRoot)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to resolve staging root").
			WithCause(err)
	}

	cmd := exec.CommandContext(ctx, a.Python, "setup.py", "install",
		"--root="+root,
		fmt.Sprintf("--optimize=%d", optimize),
	)
	cmd.Dir = sourceDir
	log.Debug().
		Str("source", sourceDir).
		Str("root", root).
		Int("optimize", optimize).
		Msg("running payload installer")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("payload installer failed").
			WithCause(shared.CommandError(output, err))
	}
	return nil
}

var _ ports.InstallerPort = SetupInstallerAdapter{}
