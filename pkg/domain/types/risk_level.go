package types

import "github.com/m-mizutani/goerr/v2"

// RiskLevel is the three bucket classification of a score
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

// Bucket boundaries. Each bucket is closed on the left and open on the right.
const (
	MediumThreshold = 3.0
	HighThreshold   = 6.0
)

// Classify maps a score to its risk level: LOW below 3, MEDIUM from 3 up to
// but excluding 6, HIGH from 6.
func Classify(score float64) RiskLevel {
	switch {
	case score < MediumThreshold:
		return RiskLevelLow
	case score < HighThreshold:
		return RiskLevelMedium
	default:
		return RiskLevelHigh
	}
}

// AllRiskLevels returns all levels from lowest to highest
func AllRiskLevels() []RiskLevel {
	return []RiskLevel{
		RiskLevelLow,
		RiskLevelMedium,
		RiskLevelHigh,
	}
}

// IsValid checks if the level is valid
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return true
	default:
		return false
	}
}

// Color returns the display colour name of the level
func (l RiskLevel) Color() string {
	switch l {
	case RiskLevelLow:
		return "green"
	case RiskLevelMedium:
		return "yellow"
	case RiskLevelHigh:
		return "red"
	default:
		return ""
	}
}

// String returns the string representation of the level
func (l RiskLevel) String() string {
	return string(l)
}

// ParseRiskLevel parses a string into a RiskLevel
func ParseRiskLevel(s string) (RiskLevel, error) {
	level := RiskLevel(s)
	if !level.IsValid() {
		return "", goerr.New("invalid risk level", goerr.V("level", s))
	}
	return level, nil
}
