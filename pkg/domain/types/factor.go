package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// FactorID is the stable kebab-case identifier of a risk factor
type FactorID string

var idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Validate checks if the FactorID is well formed. It does not check that the
// factor exists in the catalog.
func (f FactorID) Validate() error {
	if f == "" {
		return goerr.New("factor ID cannot be empty")
	}
	if !idPattern.MatchString(string(f)) {
		return goerr.New("factor ID must be lowercase alphanumeric with hyphens", goerr.V("id", f))
	}
	return nil
}

// String returns the string representation of FactorID
func (f FactorID) String() string {
	return string(f)
}

// FactorGroup tells which aggregate a factor contributes to
type FactorGroup string

const (
	FactorGroupLikelihood FactorGroup = "LIKELIHOOD"
	FactorGroupImpact     FactorGroup = "IMPACT"
)

// IsValid checks if the group is valid
func (g FactorGroup) IsValid() bool {
	switch g {
	case FactorGroupLikelihood, FactorGroupImpact:
		return true
	default:
		return false
	}
}

// String returns the string representation of the group
func (g FactorGroup) String() string {
	return string(g)
}
