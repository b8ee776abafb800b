package prompt

import (
	"strings"
	"testing"
)

func TestAspect(t *testing.T) {
	cases := map[string]string{
		"1024x1536": "portrait 2:3 (1024x1536)",
		"1536x1024": "landscape 3:2 (1536x1024)",
		"1024x1024": "square 1:1 (1024x1024)",
		"auto":      "auto",
		"512x512":   "512x512",
	}
	for size, want := range cases {
		if got := Aspect(size); got != want {
			t.Fatalf("Aspect(%q) = %q, want %q", size, got, want)
		}
	}
}

func TestBuildSectionOrder(t *testing.T) {
	got := Build(Input{
		Captions:    []string{"a tabby cat on a red sofa", "a blue bowl by the window"},
		Required:    []string{"cat", "bowl"},
		GlobalMust:  []string{"cat", "bowl", "toy", "sofa", "red", "small"},
		Size:        "1024x1536",
		TargetTotal: 6,
	})
	order := []string{
		"STYLE:\n" + styles[StyleCrayon],
		"CAPTIONS",
		"- a tabby cat on a red sofa\n- a blue bowl by the window\n",
		"REQUIRED",
		"- cat\n- bowl\n",
		"GLOBAL MUST (complete to 6",
		"- cat\n- bowl\n- toy\n- sofa\n- red\n- small\n",
		"Aspect: portrait 2:3 (1024x1536)",
		"No photorealism",
	}
	pos := 0
	for _, part := range order {
		idx := strings.Index(got[pos:], part)
		if idx < 0 {
			t.Fatalf("prompt missing %q after offset %d:\n%s", part, pos, got)
		}
		pos += idx + len(part)
	}
	if strings.Contains(got, "Do not invent faces") {
		t.Fatalf("unsafe build should not add safety lines:\n%s", got)
	}
}

func TestBuildDeterministic(t *testing.T) {
	in := Input{Captions: []string{"x"}, Required: []string{"y"}, GlobalMust: []string{"y", "z"}, Size: "auto", Safe: true}
	if Build(in) != Build(in) {
		t.Fatalf("Build is not deterministic")
	}
}

func TestBuildCustomStyleAndEmptySections(t *testing.T) {
	faithful, ok := Style("Faithful")
	if !ok {
		t.Fatalf("Style(Faithful) not found")
	}
	got := Build(Input{Style: faithful, Size: "800x600"})
	if !strings.Contains(got, faithful) {
		t.Fatalf("prompt missing custom style:\n%s", got)
	}
	if strings.Count(got, "- (none)") != 3 {
		t.Fatalf("expected three empty sections:\n%s", got)
	}
	if !strings.Contains(got, "Aspect: 800x600") {
		t.Fatalf("unknown size not passed through:\n%s", got)
	}
	if !strings.Contains(got, "complete to 0") {
		t.Fatalf("target should default to len(GlobalMust):\n%s", got)
	}
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "Naked tree branches, snow", want: "tree branches, snow"},
		{in: "an EXPLICIT warning sign.", want: "an warning sign"},
		{in: "nakedness is kept", want: "nakedness is kept"},
		{in: "sexual", want: ""},
		{in: ", cat.", want: "cat"},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Fatalf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildSafeDropsFilteredItems(t *testing.T) {
	got := Build(Input{
		Captions:   []string{"a nude statue? no: an explicit poster on a wall"},
		Required:   []string{"nudity", "poster"},
		GlobalMust: []string{"nudity", "poster", "wall"},
		Size:       "1024x1024",
		Safe:       true,
	})
	if strings.Contains(strings.ToLower(got), "nudity") || strings.Contains(strings.ToLower(got), "explicit poster") {
		t.Fatalf("denylisted term survived:\n%s", got)
	}
	if !strings.Contains(got, "REQUIRED (at least one element from every input image; do not omit any):\n- poster\n\n") {
		t.Fatalf("filtered item not dropped:\n%s", got)
	}
	if !strings.Contains(got, "complete to 3") {
		t.Fatalf("target should come from the unfiltered list:\n%s", got)
	}
	if !strings.Contains(got, "Do not invent faces") {
		t.Fatalf("safe build missing safety line:\n%s", got)
	}
}
