package flow

import (
	"strings"

	"github.com/hupe1980/agenthive/internal/textutil"
)

// Intent families recognized by the intent adaptation rule.
const (
	IntentCreation = "creation"
	IntentInquiry  = "inquiry"
	IntentAction   = "action"
	IntentFeedback = "feedback"
	IntentFarewell = "farewell"
	IntentGeneral  = "general"
)

// intentFamilies maps each intent to its trigger keywords. Families are
// checked in a fixed order; the first family with a hit wins.
var intentFamilies = []struct {
	intent   string
	keywords []string
}{
	{IntentFarewell, []string{"bye", "goodbye", "that's all", "thats all", "we're done", "wrap up"}},
	{IntentCreation, []string{"create", "build", "make", "design", "redesign", "draft", "write"}},
	{IntentAction, []string{"run", "execute", "deploy", "fix", "update", "delete", "send", "schedule"}},
	{IntentInquiry, []string{"what", "how", "why", "explain", "describe", "compare", "?"}},
	{IntentFeedback, []string{"thanks", "thank you", "great", "good job", "wrong", "incorrect"}},
}

// technicalTerms feed the complexity heuristic.
var technicalTerms = []string{
	"api", "database", "architecture", "algorithm", "latency", "protocol",
	"deploy", "integration", "schema", "pipeline", "concurrency", "cache",
	"authentication", "infrastructure", "migration", "optimize",
}

// AdaptationRule mutates the current state in place before transitions are
// evaluated. All registered rules run unconditionally on every input.
type AdaptationRule struct {
	Name  string
	Apply func(f *Flow, s *State, input string)
}

// defaultRules returns the standard rule set: complexity estimation, intent
// classification and tool shortlisting.
func defaultRules() []AdaptationRule {
	return []AdaptationRule{
		{Name: "complexity", Apply: adaptComplexity},
		{Name: "intent", Apply: adaptIntent},
		{Name: "tool_shortlist", Apply: adaptToolShortlist},
	}
}

// adaptComplexity scores input complexity from technical-term density and
// question depth, blended with the previous estimate so one-off simple
// messages don't reset a complex conversation.
func adaptComplexity(_ *Flow, s *State, input string) {
	tokens := textutil.Tokenize(input)
	if len(tokens) == 0 {
		return
	}
	density := float64(textutil.CountAny(input, technicalTerms)) / float64(len(tokens))
	if density > 1 {
		density = 1
	}

	depth := 0.0
	if strings.Contains(input, "?") {
		depth += 0.2
	}
	for _, probe := range []string{"why", "how", "compare", "trade-off", "tradeoff"} {
		if textutil.ContainsFold(input, probe) {
			depth += 0.1
		}
	}
	if len(tokens) > 30 {
		depth += 0.2
	}

	estimate := 2*density + depth
	if estimate > 1 {
		estimate = 1
	}
	// Blend 60/40 toward the new estimate.
	s.Complexity = 0.4*s.Complexity + 0.6*estimate
}

// adaptIntent classifies the input into a keyword family.
func adaptIntent(_ *Flow, s *State, input string) {
	for _, family := range intentFamilies {
		if textutil.CountAny(input, family.keywords) > 0 {
			s.UserIntent = family.intent
			return
		}
	}
	s.UserIntent = IntentGeneral
}

// adaptToolShortlist refreshes the state's tool shortlist by matching the
// input and detected intent against the registry. At most three tools are
// shortlisted.
func adaptToolShortlist(f *Flow, s *State, input string) {
	if f.registry == nil {
		return
	}
	matches := f.registry.Search(input + " " + s.UserIntent)
	if len(matches) > 3 {
		matches = matches[:3]
	}
	s.ToolsInUse = s.ToolsInUse[:0]
	for _, t := range matches {
		s.ToolsInUse = append(s.ToolsInUse, t.Name)
	}
}
