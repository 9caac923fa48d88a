package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"monpkg/internal/core"
	"monpkg/internal/policies"
)

// Build runs the descriptor's package step: the payload tree installs
// itself into the staging root, then the service scripts are copied
// into etc/rc.d and marked executable. Steps run strictly in order and
// the first failure aborts the build; nothing is rolled back. No write
// happens after a failed step, so a failed install leaves no service
// directory behind.
func (s Service) Build(ctx context.Context, req BuildRequest) (BuildResult, error) {
	path := strings.TrimSpace(req.DescriptorPath)
	if path == "" {
		return BuildResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("descriptor path is required")
	}
	desc, err := s.Descriptors.Load(path)
	if err != nil {
		return BuildResult{}, err
	}
	compiler := core.NewDescriptorCompiler()
	if err := compiler.ValidateDescriptor(ctx, desc); err != nil {
		return BuildResult{}, err
	}
	version := desc.Metadata.Version
	if version == "" {
		version = core.DateVersion(s.Clock())
	}
	policy, err := policies.NewStagingPolicy(req.StagingRoot)
	if err != nil {
		return BuildResult{}, err
	}

	sourceDir := strings.TrimSpace(req.SourceDir)
	if sourceDir == "" {
		sourceDir = desc.Install.SourceDir
	}
	sourceDir = resolveAgainstDescriptor(path, sourceDir)

	if err := s.Installer.Install(ctx, sourceDir, policy.Root, desc.Install.Level()); err != nil {
		return BuildResult{}, err
	}

	serviceDir, err := policy.ServiceDir()
	if err != nil {
		return BuildResult{}, err
	}
	if err := s.Staging.EnsureDir(serviceDir); err != nil {
		return BuildResult{}, err
	}
	var scripts []string
	for _, script := range desc.Services {
		name := script.Name
		if name == "" {
			name = filepath.Base(script.Source)
		}
		dst, err := policy.Resolve(filepath.Join(policies.ServiceControlDir, name))
		if err != nil {
			return BuildResult{}, err
		}
		src := resolveAgainstDescriptor(path, script.Source)
		if err := s.Staging.CopyFile(src, dst); err != nil {
			return BuildResult{}, err
		}
		scripts = append(scripts, dst)
	}
	if err := s.Staging.MarkExecutable(serviceDir); err != nil {
		return BuildResult{}, err
	}

	log.Debug().
		Str("name", desc.Metadata.Name).
		Str("version", version).
		Str("root", policy.Root).
		Int("scripts", len(scripts)).
		Msg("package step complete")
	return BuildResult{
		Name:        desc.Metadata.Name,
		Version:     version,
		StagingRoot: policy.Root,
		Scripts:     scripts,
	}, nil
}

// resolveAgainstDescriptor resolves a relative path against the
// descriptor's own directory, matching how the recipe locates its
// payload tree and script files.
func resolveAgainstDescriptor(descriptorPath string, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(descriptorPath), path)
}
