// Package prompt composes the final image-generation prompt from captions and
// consolidated element lists.
package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	StyleCrayon   = "crayon"
	StyleFaithful = "faithful"
)

var styles = map[string]string{
	StyleCrayon: "Childlike crayon and colored-pencil illustration on paper. Visible paper texture, uneven strokes, thick outlines. " +
		"Warm, cozy lighting with soft shadows. Simplified but recognizable shapes. " +
		"Limited warm palette of browns and oranges with soft greens as accents.",
	StyleFaithful: "Childlike crayon illustration with paper texture and thick outlines. " +
		"Keep the colors of the original photos faithfully and do not shift the overall color scheme.",
}

// Style returns the style block for a preset name.
func Style(name string) (string, bool) {
	text, ok := styles[strings.ToLower(strings.TrimSpace(name))]
	return text, ok
}

var aspects = map[string]string{
	"1024x1536": "portrait 2:3 (1024x1536)",
	"1536x1024": "landscape 3:2 (1536x1024)",
	"1024x1024": "square 1:1 (1024x1024)",
	"auto":      "auto",
}

// Aspect names the aspect ratio of a generation size. Unknown sizes are
// returned verbatim.
func Aspect(size string) string {
	if name, ok := aspects[size]; ok {
		return name
	}
	return size
}

// Input carries everything the prompt is built from.
type Input struct {
	Captions   []string
	Required   []string
	GlobalMust []string
	// Style is the style block; empty selects the crayon preset.
	Style string
	Size  string
	// Safe strips denylisted terms and adds the no-invented-people constraint.
	Safe bool
	// TargetTotal is the global list size announced to the model; 0 uses len(GlobalMust).
	TargetTotal int
}

// Build renders the prompt. It is a pure function of its input.
func Build(in Input) string {
	style := strings.TrimSpace(in.Style)
	if style == "" {
		style = styles[StyleCrayon]
	}
	captions, required, global := in.Captions, in.Required, in.GlobalMust
	if in.Safe {
		captions = sanitizeAll(captions)
		required = sanitizeAll(required)
		global = sanitizeAll(global)
	}
	target := in.TargetTotal
	if target <= 0 {
		target = len(in.GlobalMust)
	}

	var b strings.Builder
	b.WriteString("Create one cohesive scene in the fixed style below.\n\n")
	b.WriteString("STYLE:\n")
	b.WriteString(style)
	b.WriteString("\n\n")
	writeSection(&b, "CAPTIONS (detailed guidance; keep small accessories and textures):", captions)
	writeSection(&b, "REQUIRED (at least one element from every input image; do not omit any):", required)
	writeSection(&b, fmt.Sprintf("GLOBAL MUST (complete to %d; keep clearly visible):", target), global)

	b.WriteString("Output:\n")
	b.WriteString("- Respect the relative sizes and relations implied by the captions.\n")
	b.WriteString("- Keep 3-5 primary objects with minimal clutter and natural depth.\n")
	b.WriteString("- Aspect: " + Aspect(in.Size) + "\n")
	b.WriteString("- No photorealism, no extra text, logos or watermarks.")
	if in.Safe {
		b.WriteString("\n- Do not invent faces or people that the captions do not describe.")
		b.WriteString("\n- No explicit body detail.")
	}
	return b.String()
}

func writeSection(b *strings.Builder, heading string, items []string) {
	b.WriteString(heading)
	b.WriteByte('\n')
	if len(items) == 0 {
		b.WriteString("- (none)\n\n")
		return
	}
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
}

// denylist is a plain word filter. It does not make a prompt safe.
var denylist = regexp.MustCompile(`(?i)\b(?:naked|nudity|explicit|sexual)\b`)

// Sanitize removes denylisted words and trims leftover separators.
func Sanitize(text string) string {
	cleaned := denylist.ReplaceAllString(text, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return strings.Trim(cleaned, ",. ")
}

func sanitizeAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := Sanitize(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
