package elements

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"crayon/internal/domain"
)

// Outcome records how a Set was obtained from raw model text.
type Outcome int

const (
	// Parsed means the whole response decoded as a JSON object.
	Parsed Outcome = iota + 1
	// Recovered means only the span between the first '{' and the last '}' decoded.
	Recovered
	// Fallback means nothing decoded and the placeholder Set was used.
	Fallback
)

func (o Outcome) String() string {
	switch o {
	case Parsed:
		return "parsed"
	case Recovered:
		return "recovered"
	case Fallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of Parse. Err wraps domain.ErrUpstreamParse
// when Outcome is Fallback and is nil otherwise.
type Result struct {
	Set     Set
	Outcome Outcome
	Err     error
}

var errNotObject = errors.New("response is not a JSON object")

// Parse decodes an extractor response. It never fails: undecodable text
// yields the Placeholder set with Outcome Fallback.
func Parse(raw string) Result {
	set, err := decode(raw)
	if err == nil {
		return Result{Set: set, Outcome: Parsed}
	}
	if fragment, ok := braceFragment(raw); ok {
		if set, ferr := decode(fragment); ferr == nil {
			return Result{Set: set, Outcome: Recovered}
		}
	}
	return Result{
		Set:     Placeholder(),
		Outcome: Fallback,
		Err:     fmt.Errorf("%w: %v (%q)", domain.ErrUpstreamParse, err, preview(raw, 80)),
	}
}

func decode(text string) (Set, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &fields); err != nil {
		return Set{}, err
	}
	if fields == nil {
		return Set{}, errNotObject
	}
	list, ok := fields["candidates"]
	if !ok || isNull(list) {
		// older prompts asked for the list under "must"
		list = fields["must"]
	}
	return clean(stringValue(fields["representative"]), stringList(list)), nil
}

// clean trims every entry, drops empty candidates and caps the list at Size.
// Short lists are kept as they are.
func clean(representative string, candidates []string) Set {
	out := make([]string, 0, Size)
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		out = append(out, c)
		if len(out) == Size {
			break
		}
	}
	return Set{Representative: strings.TrimSpace(representative), Candidates: out}
}

func braceFragment(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

func stringValue(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// stringList keeps the string entries of a JSON array and skips the rest.
func stringList(raw json.RawMessage) []string {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil {
			out = append(out, s)
		}
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func preview(s string, limit int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= limit {
		return string(r)
	}
	return string(r[:limit]) + "..."
}
