package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agenthive/tool"
)

func completeTool(name string) *tool.Tool {
	return &tool.Tool{
		Name:         name,
		Description:  "fetches weather data for a city",
		Category:     "data",
		Capabilities: []string{"weather_lookup"},
		Parameters:   tool.Schema{"city": {Kind: tool.ParamString, Required: true}},
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return "sunny", nil
		},
	}
}

func TestEvaluateCleanVerifiedToolScoresHigh(t *testing.T) {
	c := &Candidate{Tool: completeTool("weather"), Trust: TrustVerified}
	Evaluate(c)

	assert.True(t, c.Compatibility.Compatible)
	assert.Equal(t, RiskLow, c.Security.Risk)
	assert.GreaterOrEqual(t, c.Score, autoRegisterScore)
	assert.LessOrEqual(t, c.Score, 100)
}

func TestEvaluatePenalizesMissingFields(t *testing.T) {
	c := &Candidate{Tool: &tool.Tool{}, Trust: TrustVerified}
	Evaluate(c)

	assert.False(t, c.Compatibility.Compatible)
	assert.Len(t, c.Compatibility.Issues, 3)
	assert.Less(t, c.Score, holdScore)
}

func TestEvaluateFlagsRiskyCapabilities(t *testing.T) {
	risky := completeTool("shell_runner")
	risky.Capabilities = []string{"shell", "file_system"}

	c := &Candidate{Tool: risky, Trust: TrustExperimental}
	Evaluate(c)

	assert.Equal(t, RiskHigh, c.Security.Risk)
	assert.Len(t, c.Security.Flags, 2)
	assert.Less(t, c.Score, autoRegisterScore)
}

func TestEvaluateTrustIsMonotonic(t *testing.T) {
	score := func(trust TrustLevel) int {
		c := &Candidate{Tool: completeTool("weather"), Trust: trust}
		Evaluate(c)
		return c.Score
	}

	experimental := score(TrustExperimental)
	community := score(TrustCommunity)
	verified := score(TrustVerified)

	assert.LessOrEqual(t, experimental, community)
	assert.LessOrEqual(t, community, verified)
}

func TestEvaluateScoreClampedToHundred(t *testing.T) {
	c := &Candidate{Tool: completeTool("weather"), Trust: TrustVerified}
	Evaluate(c)
	require.LessOrEqual(t, c.Score, 100)
	require.GreaterOrEqual(t, c.Score, 0)
}

func TestUpdateFrequencyIntervals(t *testing.T) {
	assert.Zero(t, FreqRealTime.Interval())
	assert.Less(t, FreqHourly.Interval(), FreqDaily.Interval())
	assert.Less(t, FreqDaily.Interval(), FreqWeekly.Interval())
}
