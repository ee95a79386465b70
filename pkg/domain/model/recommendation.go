package model

import (
	"fmt"

	"github.com/secmon-lab/owasprisk/pkg/domain/types"
)

var mitigations = map[string]string{
	"Skill level":             "Provide training and awareness programs.",
	"Motive":                  "Implement logging and monitoring.",
	"Opportunity":             "Restrict unnecessary access.",
	"Size":                    "Limit access to sensitive areas.",
	"Ease of discovery":       "Hide sensitive info, limit exposure.",
	"Ease of exploit":         "Patch vulnerabilities regularly.",
	"Awareness":               "Educate users & staff about threats.",
	"Intrusion detection":     "Enable IDS/IPS systems.",
	"Loss of confidentiality": "Encrypt sensitive data.",
	"Loss of integrity":       "Implement checksums & auditing.",
	"Loss of availability":    "Ensure backups & redundancy.",
	"Loss of accountability":  "Log all actions for traceability.",
	"Financial damage":        "Insurance & budget controls.",
	"Reputation damage":       "PR and incident response plans.",
	"Non-compliance":          "Follow legal and regulatory standards.",
	"Privacy violation":       "Protect user privacy and data.",
}

// Mitigation returns the mitigation sentence for a factor name. Unknown
// names yield an empty string.
func Mitigation(factorName string) string {
	return mitigations[factorName]
}

// Recommend formats the mitigation of a factor prefixed by its level, e.g.
// "(HIGH) Patch vulnerabilities regularly.".
func Recommend(factorName string, level types.RiskLevel) string {
	return fmt.Sprintf("(%s) %s", level, Mitigation(factorName))
}

// OverallRecommendation returns the headline guidance for a severity level
func OverallRecommendation(level types.RiskLevel) string {
	switch level {
	case types.RiskLevelLow:
		return "Low Risk – Maintain monitoring & basic security controls."
	case types.RiskLevelMedium:
		return "Medium Risk – Strengthen security measures, conduct regular testing."
	default:
		return "High Risk – Immediate action required! Patch, monitor, and escalate."
	}
}
