package core

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"monpkg/internal/types"
)

type DescriptorCompiler struct{}

var validArchitectures = map[string]struct{}{
	"any":     {},
	"i686":    {},
	"x86_64":  {},
	"aarch64": {},
}

var validInstallers = map[types.InstallerKind]struct{}{
	types.InstallerKindSetupPy: {},
}

var packageNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9@._+-]*$`)

func NewDescriptorCompiler() DescriptorCompiler {
	return DescriptorCompiler{}
}

func (c DescriptorCompiler) ValidateDescriptor(ctx context.Context, desc types.Descriptor) error {
	assert.NotEmpty(ctx, desc.APIVersion, "api_version must be set")
	assert.NotEmpty(ctx, string(desc.Kind), "kind must be set")
	assert.NotEmpty(ctx, desc.Metadata.Name, "metadata.name must be set")
	assert.NotEmpty(ctx, desc.Metadata.License, "metadata.license must be set")
	if desc.Kind != types.DescriptorKindPackage {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("descriptor kind must be package")
	}
	if !packageNamePattern.MatchString(desc.Metadata.Name) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid package name: %s", desc.Metadata.Name))
	}
	if desc.Metadata.Version != "" && !IsDateVersion(desc.Metadata.Version) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("metadata.version must be empty or an 8-digit date")
	}
	if desc.Metadata.Release < 1 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("metadata.release must be at least 1")
	}
	if len(desc.Metadata.Architectures) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("metadata.architectures must not be empty")
	}
	for _, arch := range desc.Metadata.Architectures {
		if _, ok := validArchitectures[arch]; !ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unsupported architecture: %s", arch))
		}
	}
	if _, err := c.CompileDependencies(desc); err != nil {
		return err
	}
	if err := validateInstall(desc.Install); err != nil {
		return err
	}
	for _, script := range desc.Services {
		if err := validateService(script); err != nil {
			return err
		}
	}
	for _, entry := range desc.Backup {
		if err := validateBackupEntry(entry); err != nil {
			return err
		}
	}
	return nil
}

// CompileDependencies parses runtime and build dependency entries and
// verifies that every constraint version parses under its dependency
// type.
func (c DescriptorCompiler) CompileDependencies(desc types.Descriptor) ([]types.Dependency, error) {
	runtime, err := ParseDependencies(desc.Dependencies, "dependencies")
	if err != nil {
		return nil, err
	}
	build, err := ParseDependencies(desc.BuildDependencies, "build_dependencies")
	if err != nil {
		return nil, err
	}
	deps := append(runtime, build...)
	for _, dep := range deps {
		if err := CheckDependency(dep); err != nil {
			return nil, err
		}
	}
	return deps, nil
}

func validateInstall(step types.InstallStep) error {
	if strings.TrimSpace(step.SourceDir) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("install.source_dir must be set")
	}
	if _, ok := validInstallers[step.Installer]; !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported installer: %s", step.Installer))
	}
	if level := step.Level(); level < 0 || level > 2 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("install.optimize must be between 0 and 2")
	}
	return nil
}

func validateService(script types.ServiceScript) error {
	if strings.TrimSpace(script.Source) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("service script source must be set")
	}
	if strings.ContainsAny(script.Name, "/\\") {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("service script name must not contain path separators: %s", script.Name))
	}
	return nil
}

func validateBackupEntry(entry string) error {
	trimmed := strings.TrimSpace(entry)
	if trimmed == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("backup entry must not be empty")
	}
	if strings.HasPrefix(trimmed, "/") || strings.Contains(trimmed, "..") {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("backup entry must be a relative path inside the package: %s", entry))
	}
	return nil
}
