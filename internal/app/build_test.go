package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monpkg/internal/adapters"
)

const descriptorYAML = `api_version: v1
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

const initScript = "#!/bin/sh\nexec /usr/bin/salt-monitor \"$@\"\n"

// fakeInstaller stands in for the payload tree's own installer.
type fakeInstaller struct {
	err      error
	calls    int
	lastRoot string
}

func (f *fakeInstaller) Install(_ context.Context, _ string, stagingRoot string, _ int) error {
	f.calls++
	f.lastRoot = stagingRoot
	if f.err != nil {
		return f.err
	}
	site := filepath.Join(stagingRoot, "usr", "lib", "python2.7", "site-packages", "monitor")
	if err := os.MkdirAll(site, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(site, "__init__.py"), []byte("# monitor\n"), 0644)
}

// writeRecipeTree lays out the descriptor the way the real recipe sits
// inside its payload tree: <tree>/pkg/arch/package.yaml with the init
// script one level up.
func writeRecipeTree(t *testing.T) string {
	t.Helper()
	tree := t.TempDir()
	archDir := filepath.Join(tree, "pkg", "arch")
	require.NoError(t, os.MkdirAll(archDir, 0755))
	path := filepath.Join(archDir, "package.yaml")
	require.NoError(t, os.WriteFile(path, []byte(descriptorYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tree, "pkg", "salt-monitor"), []byte(initScript), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tree, "setup.py"), []byte("# setup\n"), 0644))
	return path
}

func testService(installer *fakeInstaller) Service {
	service := NewService("")
	service.Installer = installer
	service.Clock = func() time.Time {
		return time.Date(2012, 5, 14, 9, 30, 0, 0, time.UTC)
	}
	return service
}

func TestBuildStagesPayloadAndScript(t *testing.T) {
	descriptorPath := writeRecipeTree(t)
	root := t.TempDir()
	installer := &fakeInstaller{}
	service := testService(installer)

	result, err := service.Build(t.Context(), BuildRequest{
		DescriptorPath: descriptorPath,
		StagingRoot:    root,
	})
	require.NoError(t, err)
	assert.Equal(t, "salt-monitor", result.Name)
	assert.Equal(t, "20120514", result.Version)
	assert.Equal(t, 1, installer.calls)

	script := filepath.Join(root, "etc", "rc.d", "salt-monitor")
	info, err := os.Stat(script)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0111), info.Mode().Perm()&0111, "execute bits for owner, group, and other")

	content, err := os.ReadFile(script)
	require.NoError(t, err)
	assert.Equal(t, initScript, string(content))

	// Payload installed by the delegated installer.
	assert.FileExists(t, filepath.Join(root, "usr", "lib", "python2.7", "site-packages", "monitor", "__init__.py"))
}

func TestBuildIsIdempotentForScripts(t *testing.T) {
	descriptorPath := writeRecipeTree(t)
	root := t.TempDir()
	service := testService(&fakeInstaller{})

	_, err := service.Build(t.Context(), BuildRequest{DescriptorPath: descriptorPath, StagingRoot: root})
	require.NoError(t, err)
	_, err = service.Build(t.Context(), BuildRequest{DescriptorPath: descriptorPath, StagingRoot: root})
	require.NoError(t, err)

	script := filepath.Join(root, "etc", "rc.d", "salt-monitor")
	content, err := os.ReadFile(script)
	require.NoError(t, err)
	assert.Equal(t, initScript, string(content))
	info, err := os.Stat(script)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0111), info.Mode().Perm()&0111)
}

func TestBuildInstallerFailureLeavesNoServiceDir(t *testing.T) {
	descriptorPath := writeRecipeTree(t)
	root := t.TempDir()
	installer := &fakeInstaller{err: errors.New("installer exploded")}
	service := testService(installer)

	_, err := service.Build(t.Context(), BuildRequest{DescriptorPath: descriptorPath, StagingRoot: root})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(root, "etc"))
	assert.True(t, os.IsNotExist(statErr), "no etc/ should exist after a failed install")
}

func TestBuildRequiresDescriptorPath(t *testing.T) {
	service := testService(&fakeInstaller{})
	_, err := service.Build(t.Context(), BuildRequest{StagingRoot: t.TempDir()})
	require.Error(t, err)
}

func TestBuildRequiresStagingRoot(t *testing.T) {
	descriptorPath := writeRecipeTree(t)
	service := testService(&fakeInstaller{})
	_, err := service.Build(t.Context(), BuildRequest{DescriptorPath: descriptorPath})
	require.Error(t, err)
}

func TestBuildSourceDirOverride(t *testing.T) {
	descriptorPath := writeRecipeTree(t)
	root := t.TempDir()
	installer := &fakeInstaller{}
	service := testService(installer)

	override := t.TempDir()
	_, err := service.Build(t.Context(), BuildRequest{
		DescriptorPath: descriptorPath,
		SourceDir:      override,
		StagingRoot:    root,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, installer.calls)
}

// The default wiring uses the real adapters end to end.
func TestNewServiceWiring(t *testing.T) {
	service := NewService("python3")
	require.NotNil(t, service.Descriptors)
	require.NotNil(t, service.Staging)
	require.NotNil(t, service.Archives)
	require.NotNil(t, service.Artifacts)
	installer, ok := service.Installer.(adapters.SetupInstallerAdapter)
	require.True(t, ok)
	assert.Equal(t, "python3", installer.Python)
}
