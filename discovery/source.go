package discovery

import (
	"context"
	"time"

	"github.com/hupe1980/agenthive/tool"
)

// TrustLevel is the declared trustworthiness of a discovery source.
type TrustLevel string

const (
	// TrustVerified sources are vetted; their clean candidates may
	// auto-register.
	TrustVerified TrustLevel = "verified"
	// TrustCommunity sources are public but unvetted.
	TrustCommunity TrustLevel = "community"
	// TrustExperimental sources are untrusted feeds under evaluation.
	TrustExperimental TrustLevel = "experimental"
)

// trustRank orders trust levels for scoring; higher is more trusted.
func trustRank(t TrustLevel) int {
	switch t {
	case TrustVerified:
		return 2
	case TrustCommunity:
		return 1
	default:
		return 0
	}
}

// UpdateFrequency declares how often a source should be polled.
type UpdateFrequency string

const (
	// FreqRealTime polls on every discovery cycle.
	FreqRealTime UpdateFrequency = "real_time"
	// FreqHourly polls at most once per hour.
	FreqHourly UpdateFrequency = "hourly"
	// FreqDaily polls at most once per day.
	FreqDaily UpdateFrequency = "daily"
	// FreqWeekly polls at most once per week.
	FreqWeekly UpdateFrequency = "weekly"
)

// Interval returns the minimum time between polls of a source.
func (f UpdateFrequency) Interval() time.Duration {
	switch f {
	case FreqHourly:
		return time.Hour
	case FreqDaily:
		return 24 * time.Hour
	case FreqWeekly:
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

// Source is an external feed of candidate tools. Fetch is called on the
// pipeline's poll cadence and may fail transiently; failures are retried on
// the next cycle.
type Source struct {
	Name      string
	Trust     TrustLevel
	Frequency UpdateFrequency
	Fetch     func(ctx context.Context) ([]*tool.Tool, error)
}

// Candidate is a discovered tool waiting for (or holding) an evaluation.
// It is transient: an evaluation batch either promotes it into the registry,
// parks it for manual approval, or discards it.
type Candidate struct {
	Tool          *tool.Tool          `json:"tool"`
	Source        string              `json:"source"`
	Trust         TrustLevel          `json:"trust"`
	Score         int                 `json:"score"`
	Compatibility CompatibilityResult `json:"compatibility"`
	Security      SecurityAssessment  `json:"security"`
	DiscoveredAt  time.Time           `json:"discovered_at"`
}
