package discovery

import (
	"strings"

	"github.com/hupe1980/agenthive/tool"
)

// Score caps per evaluation dimension. The total is clamped to [0,100].
const (
	maxCompatibilityScore = 40
	maxSecurityScore      = 30
	maxTrustScore         = 20
	maxCompletenessBonus  = 15

	issuePenalty = 15
)

// riskyCapabilities flag capability tags that warrant a closer look before a
// tool is trusted with execution.
var riskyCapabilities = []string{
	"file_system",
	"network_access",
	"system_command",
	"shell",
	"exec",
	"credential_access",
}

// RiskLevel buckets the security assessment outcome.
type RiskLevel string

const (
	// RiskLow marks candidates with no flags from trusted sources.
	RiskLow RiskLevel = "low"
	// RiskMedium marks candidates with some flags or weaker provenance.
	RiskMedium RiskLevel = "medium"
	// RiskHigh marks candidates that combine flags with untrusted sources.
	RiskHigh RiskLevel = "high"
)

// CompatibilityResult lists hard issues (missing required fields) and soft
// warnings (missing parameter schema) found on a candidate.
type CompatibilityResult struct {
	Compatible bool     `json:"compatible"`
	Issues     []string `json:"issues,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// SecurityAssessment records the inferred risk and the capability flags that
// produced it.
type SecurityAssessment struct {
	Risk  RiskLevel `json:"risk"`
	Flags []string  `json:"flags,omitempty"`
}

// checkCompatibility verifies the candidate carries the fields the registry
// requires. A missing parameter schema is a warning, not an issue.
func checkCompatibility(t *tool.Tool) CompatibilityResult {
	var res CompatibilityResult
	if t.Name == "" {
		res.Issues = append(res.Issues, "missing name")
	}
	if t.Description == "" {
		res.Issues = append(res.Issues, "missing description")
	}
	if t.Execute == nil {
		res.Issues = append(res.Issues, "missing execute handler")
	}
	if len(t.Parameters) == 0 {
		res.Warnings = append(res.Warnings, "missing parameter schema")
	}
	res.Compatible = len(res.Issues) == 0
	return res
}

// assessSecurity infers a risk level from the source trust and the presence
// of risk-flagged capability keywords. More trust can only lower the risk,
// never raise it.
func assessSecurity(t *tool.Tool, trust TrustLevel) SecurityAssessment {
	var flags []string
	for _, cap := range t.Capabilities {
		lower := strings.ToLower(cap)
		for _, risky := range riskyCapabilities {
			if strings.Contains(lower, risky) {
				flags = append(flags, cap)
				break
			}
		}
	}
	points := len(flags) + (2 - trustRank(trust))
	risk := RiskLow
	switch {
	case points >= 3:
		risk = RiskHigh
	case points >= 1:
		risk = RiskMedium
	}
	return SecurityAssessment{Risk: risk, Flags: flags}
}

func securityScore(risk RiskLevel) int {
	switch risk {
	case RiskLow:
		return maxSecurityScore
	case RiskMedium:
		return 18
	default:
		return 6
	}
}

func trustScore(trust TrustLevel) int {
	switch trust {
	case TrustVerified:
		return maxTrustScore
	case TrustCommunity:
		return 12
	default:
		return 5
	}
}

func completenessBonus(t *tool.Tool) int {
	bonus := 0
	if t.Description != "" {
		bonus += 5
	}
	if len(t.Parameters) > 0 {
		bonus += 5
	}
	if len(t.Capabilities) > 0 {
		bonus += 5
	}
	if bonus > maxCompletenessBonus {
		bonus = maxCompletenessBonus
	}
	return bonus
}

// Evaluate fills in the candidate's compatibility, security and total score.
// The score is compatibility (<=40, minus 15 per issue) + security (<=30,
// inverse of risk) + source trust (<=20) + completeness bonus (<=15),
// clamped to [0,100]. Raising source trust with everything else equal never
// lowers the score.
func Evaluate(c *Candidate) {
	c.Compatibility = checkCompatibility(c.Tool)
	c.Security = assessSecurity(c.Tool, c.Trust)

	compat := maxCompatibilityScore - issuePenalty*len(c.Compatibility.Issues)
	if compat < 0 {
		compat = 0
	}

	score := compat + securityScore(c.Security.Risk) + trustScore(c.Trust) + completenessBonus(c.Tool)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	c.Score = score
}
