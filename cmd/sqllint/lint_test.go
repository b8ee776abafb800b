package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLintRepositoryQueries(t *testing.T) {
	findings, err := lintPaths([]string{filepath.Join("..", "..", "internal", "sqlinline")})
	if err != nil {
		t.Fatalf("lintPaths: %v", err)
	}
	for _, f := range findings {
		t.Errorf("unmarked query: %s", f)
	}
}

func TestLintFileFindings(t *testing.T) {
	src := "package q\n\n" +
		"const Marked = `--sql 1b4e28ba-2fa1-41d2-883f-0016d3cca427\nSELECT 1`\n" +
		"const Unmarked = `SELECT 1`\n" +
		"const Label = \"hello world\"\n" +
		"var Created = \"CREATE TABLE t (id int)\"\n"
	path := filepath.Join(t.TempDir(), "q.go")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	findings, err := lintFile(path)
	if err != nil {
		t.Fatalf("lintFile: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("findings = %v, want Unmarked and Created", findings)
	}
	if findings[0].Name != "Unmarked" || findings[1].Name != "Created" {
		t.Fatalf("findings = %v", findings)
	}
	if findings[0].Pos.Line != 4 {
		t.Fatalf("line = %d, want 4", findings[0].Pos.Line)
	}
}
