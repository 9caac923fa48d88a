package core

import (
	"fmt"
	"regexp"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"

	"monpkg/internal/types"
)

// dateVersionLayout is the calendar-date version format stamped onto a
// descriptor at evaluation time.
const dateVersionLayout = "20060102"

var dateVersionPattern = regexp.MustCompile(`^\d{8}$`)

// DateVersion formats the clock's current date as a YYYYMMDD version
// string. The value is computed once per build invocation and is
// immutable thereafter.
func DateVersion(now time.Time) string {
	return now.Format(dateVersionLayout)
}

// IsDateVersion reports whether value is an 8-digit date version.
func IsDateVersion(value string) bool {
	return dateVersionPattern.MatchString(value)
}

// preparedConstraint is a pre-parsed version constraint ready for
// repeated comparison. For system dependencies it holds a parsed
// Debian-style version; for python dependencies a PEP 440 specifier set.
type preparedConstraint struct {
	op  types.ConstraintOp
	deb debversion.Version
	pep pep440.Specifiers
}

// prepareConstraints parses each constraint's version string upfront so
// parse errors surface during validation rather than mid-check.
func prepareConstraints(depType types.DependencyType, constraints []types.Constraint) ([]preparedConstraint, error) {
	var out []preparedConstraint
	for _, constraint := range constraints {
		if constraint.Op == types.ConstraintOpNone {
			continue
		}
		switch depType {
		case types.DependencyTypeSystem:
			if constraint.Op == types.ConstraintOpCompat {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("operator ~= in constraint %s~=%s requires a python dependency", constraint.Name, constraint.Version))
			}
			parsed, err := debversion.NewVersion(constraint.Version)
			if err != nil {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("invalid version in constraint %s%s%s", constraint.Name, constraint.Op, constraint.Version)).
					WithCause(err)
			}
			out = append(out, preparedConstraint{op: constraint.Op, deb: parsed})
		case types.DependencyTypePython:
			spec, err := pep440.NewSpecifiers(toPep440Spec(constraint))
			if err != nil {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("invalid version in constraint %s%s%s", constraint.Name, constraint.Op, constraint.Version)).
					WithCause(err)
			}
			out = append(out, preparedConstraint{op: constraint.Op, pep: spec})
		default:
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("unsupported dependency type")
		}
	}
	return out, nil
}

// CheckDependency verifies that every constraint version parses under the
// dependency's type semantics.
func CheckDependency(dep types.Dependency) error {
	_, err := prepareConstraints(dep.Type, dep.Constraints)
	return err
}

// Satisfies reports whether the given installed version satisfies all of
// the dependency's constraints.
func Satisfies(dep types.Dependency, version string) (bool, error) {
	prepared, err := prepareConstraints(dep.Type, dep.Constraints)
	if err != nil {
		return false, err
	}
	if len(prepared) == 0 {
		return true, nil
	}
	switch dep.Type {
	case types.DependencyTypeSystem:
		return satisfiesDeb(version, prepared)
	case types.DependencyTypePython:
		return satisfiesPep440(version, prepared)
	default:
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported dependency type")
	}
}

// satisfiesDeb checks a Debian-style version against all prepared
// constraints.
func satisfiesDeb(version string, constraints []preparedConstraint) (bool, error) {
	v, err := debversion.NewVersion(version)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid installed version: %s", version)).
			WithCause(err)
	}
	for _, constraint := range constraints {
		c := constraint.deb
		switch constraint.op {
		case types.ConstraintOpEq, types.ConstraintOpEq2:
			if !v.Equal(c) {
				return false, nil
			}
		case types.ConstraintOpNe:
			if v.Equal(c) {
				return false, nil
			}
		case types.ConstraintOpGte:
			if v.LessThan(c) && !v.Equal(c) {
				return false, nil
			}
		case types.ConstraintOpLte:
			if v.GreaterThan(c) && !v.Equal(c) {
				return false, nil
			}
		case types.ConstraintOpGt:
			if !v.GreaterThan(c) {
				return false, nil
			}
		case types.ConstraintOpLt:
			if !v.LessThan(c) {
				return false, nil
			}
		default:
			return false, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("unsupported constraint operator")
		}
	}
	return true, nil
}

// satisfiesPep440 checks a PEP 440 version against all prepared
// specifiers.
func satisfiesPep440(version string, constraints []preparedConstraint) (bool, error) {
	parsed, err := pep440.Parse(version)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid installed version: %s", version)).
			WithCause(err)
	}
	for _, constraint := range constraints {
		if !constraint.pep.Check(parsed) {
			return false, nil
		}
	}
	return true, nil
}

// toPep440Spec converts an internal constraint to a PEP 440 specifier
// string (e.g. ">= 1.0", "~= 2.3").
func toPep440Spec(constraint types.Constraint) string {
	op := string(constraint.Op)
	switch constraint.Op {
	case types.ConstraintOpEq, types.ConstraintOpEq2:
		op = "=="
	case types.ConstraintOpNe:
		op = "!="
	case types.ConstraintOpCompat:
		op = "~="
	}
	return fmt.Sprintf("%s %s", op, constraint.Version)
}
