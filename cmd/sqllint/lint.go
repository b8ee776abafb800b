package main

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	sqlKeyword = regexp.MustCompile(`(?i)\b(select|insert|update|delete|with|create|alter|drop)\b`)
	sqlMarker  = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

type finding struct {
	Pos  token.Position
	Name string
}

func (f finding) String() string {
	return fmt.Sprintf("%s:%d %s", f.Pos.Filename, f.Pos.Line, f.Name)
}

func lintPaths(targets []string) ([]finding, error) {
	var out []finding
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			found, err := lintFile(target)
			if err != nil {
				return nil, err
			}
			out = append(out, found...)
			continue
		}
		err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != target && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_") || d.Name() == "vendor") {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
				return nil
			}
			found, err := lintFile(path)
			if err != nil {
				return err
			}
			out = append(out, found...)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func lintFile(path string) ([]finding, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		return nil, err
	}
	var out []finding
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || (gen.Tok != token.CONST && gen.Tok != token.VAR) {
			continue
		}
		for _, spec := range gen.Specs {
			vs := spec.(*ast.ValueSpec)
			for i, value := range vs.Values {
				lit, ok := value.(*ast.BasicLit)
				if !ok || lit.Kind != token.STRING {
					continue
				}
				text, err := strconv.Unquote(lit.Value)
				if err != nil || !sqlKeyword.MatchString(text) {
					continue
				}
				if sqlMarker.MatchString(firstLine(text)) {
					continue
				}
				name := "_"
				if i < len(vs.Names) {
					name = vs.Names[i].Name
				}
				out = append(out, finding{Pos: fset.Position(lit.Pos()), Name: name})
			}
		}
	}
	return out, nil
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n\r \t")
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
