package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monpkg/internal/types"
)

const sampleDescriptorYAML = `api_version: v1
kind: package
metadata:
  name: salt-monitor
  release: 1
  description: Monitoring extension for the salt automation system
  architectures: [any]
  url: https://github.com/saltstack/salt
  license: Apache
  maintainer: Example Dev <dev@example.com>
dependencies:
  - salt>=0.9.2
  - python2
build_dependencies:
  - python:distribute
backup:
  - etc/salt/monitor
install:
  source_dir: ../..
  installer: setup.py
  optimize: 1
services:
  - source: ../salt-monitor
`

func writeDescriptor(t *testing.T, dir string, content string) string {
	t.Helper()
	path := filepath.Join(dir, "package.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDescriptorFileAdapter_Load(t *testing.T) {
	path := writeDescriptor(t, t.TempDir(), sampleDescriptorYAML)
	adapter := NewDescriptorFileAdapter()
	desc, err := adapter.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "salt-monitor", desc.Metadata.Name)
	assert.Equal(t, types.DescriptorKindPackage, desc.Kind)
	assert.Equal(t, 1, desc.Install.Level())
	require.Len(t, desc.Services, 1)
	assert.Equal(t, "../salt-monitor", desc.Services[0].Source)
}

func TestDescriptorFileAdapter_DefaultOptimize(t *testing.T) {
	content := `api_version: v1
kind: package
metadata:
  name: salt-monitor
  release: 1
  architectures: [any]
  license: Apache
install:
  source_dir: ../..
  installer: setup.py
`
	path := writeDescriptor(t, t.TempDir(), content)
	desc, err := NewDescriptorFileAdapter().Load(path)
	require.NoError(t, err)
	assert.Nil(t, desc.Install.Optimize)
	assert.Equal(t, types.DefaultOptimize, desc.Install.Level())
}

func TestDescriptorFileAdapter_WrongKind(t *testing.T) {
	content := "api_version: v1\nkind: profile\n"
	path := writeDescriptor(t, t.TempDir(), content)
	_, err := NewDescriptorFileAdapter().Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kind is not package")
}

func TestDescriptorFileAdapter_Missing(t *testing.T) {
	_, err := NewDescriptorFileAdapter().Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDescriptorFileAdapter_BadYAML(t *testing.T) {
	path := writeDescriptor(t, t.TempDir(), "kind: [unclosed")
	_, err := NewDescriptorFileAdapter().Load(path)
	require.Error(t, err)
}
