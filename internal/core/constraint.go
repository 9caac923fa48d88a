package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"monpkg/internal/types"
)

// opTokens is the ordered list of constraint operators tried during
// parsing. Longer tokens must precede shorter ones to avoid false matches
// (e.g. ">=" before ">").
var opTokens = []types.ConstraintOp{
	types.ConstraintOpGte,
	types.ConstraintOpLte,
	types.ConstraintOpCompat,
	types.ConstraintOpNe,
	types.ConstraintOpEq2,
	types.ConstraintOpEq,
	types.ConstraintOpGt,
	types.ConstraintOpLt,
}

const pythonDepPrefix = "python:"

// ParseConstraint splits a raw "name>=version" string into a Constraint.
// When no operator is found the constraint is treated as a bare name
// reference with ConstraintOpNone.
func ParseConstraint(raw string, source string) (types.Constraint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.Constraint{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty constraint")
	}
	for _, op := range opTokens {
		if strings.Contains(raw, string(op)) {
			parts := strings.SplitN(raw, string(op), 2)
			name := strings.TrimSpace(parts[0])
			version := strings.TrimSpace(parts[1])
			if name == "" || version == "" {
				return types.Constraint{}, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("invalid constraint: %s", raw))
			}
			return types.Constraint{
				Name:    name,
				Op:      op,
				Version: version,
				Source:  source,
			}, nil
		}
	}
	return types.Constraint{
		Name:    raw,
		Op:      types.ConstraintOpNone,
		Version: "",
		Source:  source,
	}, nil
}

// ParseDependency parses a descriptor dependency entry. Entries are
// system dependencies unless prefixed with "python:", which marks a
// PEP 440 dependency of the payload tree.
func ParseDependency(raw string, source string) (types.Dependency, error) {
	trimmed := strings.TrimSpace(raw)
	depType := types.DependencyTypeSystem
	if strings.HasPrefix(trimmed, pythonDepPrefix) {
		depType = types.DependencyTypePython
		trimmed = strings.TrimPrefix(trimmed, pythonDepPrefix)
	}
	constraint, err := ParseConstraint(trimmed, source)
	if err != nil {
		return types.Dependency{}, err
	}
	dep := types.Dependency{
		Name: constraint.Name,
		Type: depType,
	}
	if constraint.Op != types.ConstraintOpNone {
		dep.Constraints = []types.Constraint{constraint}
	}
	return dep, nil
}

// ParseDependencies parses every entry, failing on the first invalid one.
func ParseDependencies(raw []string, source string) ([]types.Dependency, error) {
	deps := make([]types.Dependency, 0, len(raw))
	for _, entry := range raw {
		dep, err := ParseDependency(entry, source)
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return deps, nil
}
