// Package elements turns per-image model analyses into the element lists that
// drive prompt composition: defensive decoding of the extractor's JSON, text
// normalization and the cross-image consolidation step.
package elements

// Size is the number of candidates requested per image.
const Size = 6

// DefaultTargetTotal is the length of the global must-include list.
const DefaultTargetTotal = 6

// Set is the salient-element record derived from one caption.
type Set struct {
	Representative string   `json:"representative"`
	Candidates     []string `json:"candidates"`
}

// Placeholder is substituted when a model response cannot be decoded.
func Placeholder() Set {
	return Set{
		Representative: "object",
		Candidates:     []string{"item1", "item2", "item3", "item4", "item5", "item6"},
	}
}

// ordered lists the representative first, then the candidates.
func (s Set) ordered() []string {
	out := make([]string, 0, len(s.Candidates)+1)
	out = append(out, s.Representative)
	return append(out, s.Candidates...)
}
