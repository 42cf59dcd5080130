package main

import (
	"flag"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "lumora"

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerRule lists what a hexagonal layer may import besides the standard library.
// Allowed entries ending in "/" are relative to the owning service.
type layerRule struct {
	Name      string
	Allowed   []string
	Forbidden []string
}

var layerRules = map[string]layerRule{
	"domain": {
		Name:      "domain",
		Allowed:   []string{"/domain"},
		Forbidden: []string{"/adapters/", modulePath + "/internal/"},
	},
	"ports": {
		Name:      "ports",
		Allowed:   []string{"/domain", modulePath + "/internal/shared/events"},
		Forbidden: []string{"/adapters/", "/application"},
	},
	"application": {
		Name:      "application",
		Allowed:   []string{"/application", "/domain", "/ports"},
		Forbidden: []string{"/adapters/", modulePath + "/internal/platform/", modulePath + "/internal/app/"},
	},
}

func main() {
	root := flag.String("root", "contexts", "directory holding bounded contexts")
	flag.Parse()

	violations := collectViolations(*root)
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File != violations[j].File {
			return violations[i].File < violations[j].File
		}
		if violations[i].Line != violations[j].Line {
			return violations[i].Line < violations[j].Line
		}
		return violations[i].Import < violations[j].Import
	})

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

func collectViolations(root string) []violation {
	var violations []violation
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, relErr := filepath.Rel(filepath.Dir(filepath.Clean(root)), path)
		if relErr != nil {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		// contexts/<context>/<service>/<layer>/...
		if len(parts) < 5 {
			return nil
		}
		servicePrefix := strings.Join(append([]string{modulePath}, parts[:3]...), "/")
		violations = append(violations, validateFile(path, parts[3], servicePrefix)...)
		return nil
	})
	return violations
}

func validateFile(path string, layer string, servicePrefix string) []violation {
	normalized := filepath.ToSlash(path)
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: normalized, Line: 1, Rule: "file must parse"}}
	}

	contextsPrefix := modulePath + "/contexts/"
	rule, layered := layerRules[layer]

	var violations []violation
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		line := fset.Position(imp.Pos()).Line
		report := func(reason string) {
			violations = append(violations, violation{File: normalized, Line: line, Import: importPath, Rule: reason})
		}

		if strings.HasPrefix(importPath, contextsPrefix) && !hasPrefix(importPath, servicePrefix) {
			report("cross-service imports are forbidden")
		}
		if !layered || isStdlib(importPath) {
			continue
		}
		for _, marker := range rule.Forbidden {
			if strings.Contains(importPath, marker) && !isAllowed(importPath, resolve(rule.Allowed, servicePrefix)) {
				report(fmt.Sprintf("%s must not import %s", rule.Name, strings.Trim(marker, "/")))
			}
		}
		if !isAllowed(importPath, resolve(rule.Allowed, servicePrefix)) {
			report(rule.Name + " import is outside explicit allowlist")
		}
	}
	return violations
}

func resolve(allowed []string, servicePrefix string) []string {
	out := make([]string, 0, len(allowed))
	for _, entry := range allowed {
		if strings.HasPrefix(entry, "/") {
			out = append(out, servicePrefix+entry)
			continue
		}
		out = append(out, entry)
	}
	return out
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAllowed(importPath string, allowedPrefixes []string) bool {
	for _, p := range allowedPrefixes {
		if hasPrefix(importPath, p) {
			return true
		}
	}
	return false
}

func isStdlib(importPath string) bool {
	if hasPrefix(importPath, modulePath) {
		return false
	}
	first := importPath
	if idx := strings.Index(first, "/"); idx != -1 {
		first = first[:idx]
	}
	return !strings.Contains(first, ".")
}
