package integration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monpkg/internal/adapters"
	"monpkg/internal/app"
	"monpkg/internal/types"
)

const descriptorYAML = `api_version: v1
kind: package
metadata:
  name: salt-monitor
  release: 1
  description: Monitoring extension for the salt automation system
  architectures: [any]
  license: Apache
dependencies:
  - salt>=0.9.2
install:
  source_dir: ../..
  installer: setup.py
  optimize: 1
services:
  - source: ../salt-monitor
`

// fakeSetupPy is a shell script standing in for a payload tree's own
// installer. It accepts the same argument shape the adapter passes
// (install --root=<dir> --optimize=<n>) and installs one module file
// under the root.
const fakeSetupPy = `#!/bin/sh
root=""
for arg in "$@"; do
  case "$arg" in
    --root=*) root="${arg#--root=}" ;;
  esac
done
[ -n "$root" ] || exit 1
mkdir -p "$root/usr/lib/python2.7/site-packages/monitor" || exit 1
printf '# monitor\n' > "$root/usr/lib/python2.7/site-packages/monitor/__init__.py"
`

const failingSetupPy = `#!/bin/sh
echo "error: missing Cython" >&2
exit 1
`

func writePayloadTree(t *testing.T, setupPy string) string {
	t.Helper()
	tree := t.TempDir()
	archDir := filepath.Join(tree, "pkg", "arch")
	require.NoError(t, os.MkdirAll(archDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(archDir, "package.yaml"), []byte(descriptorYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tree, "pkg", "salt-monitor"), []byte("#!/bin/sh\nexec salt-monitor\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tree, "setup.py"), []byte(setupPy), 0755))
	return filepath.Join(archDir, "package.yaml")
}

// newService drives the payload installer through sh so the test does
// not depend on a python interpreter.
func newService() app.Service {
	service := app.NewService("sh")
	service.Clock = func() time.Time {
		return time.Date(2012, 5, 14, 9, 30, 0, 0, time.UTC)
	}
	return service
}

func TestPackageStepEndToEnd(t *testing.T) {
	descriptorPath := writePayloadTree(t, fakeSetupPy)
	root := t.TempDir()
	service := newService()

	result, err := service.Build(t.Context(), app.BuildRequest{
		DescriptorPath: descriptorPath,
		StagingRoot:    root,
	})
	require.NoError(t, err)
	assert.Equal(t, "20120514", result.Version)

	script := filepath.Join(root, "etc", "rc.d", "salt-monitor")
	info, err := os.Stat(script)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0111), info.Mode().Perm()&0111)
	assert.FileExists(t, filepath.Join(root, "usr", "lib", "python2.7", "site-packages", "monitor", "__init__.py"))

	archive, err := service.Archive(t.Context(), app.ArchiveRequest{
		DescriptorPath: descriptorPath,
		StagingRoot:    root,
		OutputDir:      t.TempDir(),
		Compression:    types.CompressionGzip,
	})
	require.NoError(t, err)

	inspected, err := service.Inspect(app.InspectRequest{ArtifactPath: archive.Artifact.Path})
	require.NoError(t, err)
	assert.Equal(t, "salt-monitor", inspected.Info.Name)
	assert.Equal(t, 2, inspected.Files)
}

func TestPackageStepInstallerFailurePropagates(t *testing.T) {
	descriptorPath := writePayloadTree(t, failingSetupPy)
	root := t.TempDir()
	service := newService()

	_, err := service.Build(t.Context(), app.BuildRequest{
		DescriptorPath: descriptorPath,
		StagingRoot:    root,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "installer")

	_, statErr := os.Stat(filepath.Join(root, "etc"))
	assert.True(t, os.IsNotExist(statErr), "failed install must not create etc/rc.d")
}

func TestInstallerRejectsTreeWithoutSetupPy(t *testing.T) {
	installer := adapters.NewSetupInstallerAdapter("sh")
	err := installer.Install(t.Context(), t.TempDir(), t.TempDir(), 1)
	require.Error(t, err)
}
