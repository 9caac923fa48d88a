package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"monpkg/internal/core"
)

func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	path := strings.TrimSpace(req.DescriptorPath)
	if path == "" {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("descriptor path is required")
	}
	desc, err := s.Descriptors.Load(path)
	if err != nil {
		return ValidateResult{}, err
	}
	compiler := core.NewDescriptorCompiler()
	if err := compiler.ValidateDescriptor(ctx, desc); err != nil {
		return ValidateResult{}, err
	}
	deps, err := compiler.CompileDependencies(desc)
	if err != nil {
		return ValidateResult{}, err
	}

	installed, err := parseInstalled(req.Installed)
	if err != nil {
		return ValidateResult{}, err
	}
	for _, dep := range deps {
		version, ok := installed[dep.Name]
		if !ok {
			continue
		}
		satisfied, err := core.Satisfies(dep, version)
		if err != nil {
			return ValidateResult{}, err
		}
		if !satisfied {
			constraint := dep.Constraints[0]
			return ValidateResult{}, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("installed %s %s does not satisfy %s%s%s", dep.Name, version, constraint.Name, constraint.Op, constraint.Version))
		}
	}

	version := desc.Metadata.Version
	if version == "" {
		version = core.DateVersion(s.Clock())
	}
	return ValidateResult{
		Name:         desc.Metadata.Name,
		Version:      version,
		Dependencies: len(deps),
	}, nil
}

func parseInstalled(pairs []string) (map[string]string, error) {
	installed := map[string]string{}
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid installed pair, want name=version: %s", pair))
		}
		installed[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return installed, nil
}
