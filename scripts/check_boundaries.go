// check_boundaries walks contexts/ and fails when a layer of a service
// module imports something its layer policy does not allow.
//
//	go run ./scripts/check_boundaries.go
package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

const modulePath = "rewardsplit"

// layerPolicy lists what one layer may import. Entries in local are relative
// to the owning service; entries in shared are full import paths. Standard
// library imports are always allowed.
type layerPolicy struct {
	local  []string
	shared []string
	// forbidden service-relative layers, reported with their own message
	forbidden []string
}

var policies = map[string]layerPolicy{
	"domain": {
		local:     []string{"domain"},
		shared:    []string{"github.com/shopspring/decimal"},
		forbidden: []string{"application", "ports", "adapters", "transport"},
	},
	"ports": {
		local:     []string{"domain"},
		shared:    []string{modulePath + "/contracts", "github.com/shopspring/decimal"},
		forbidden: []string{"application", "adapters", "transport"},
	},
	"application": {
		local:     []string{"application", "domain", "ports"},
		shared:    []string{modulePath + "/contracts", "github.com/shopspring/decimal"},
		forbidden: []string{"adapters", "transport"},
	},
	"transport": {
		local:     []string{"transport"},
		forbidden: []string{"adapters"},
	},
}

type finding struct {
	pos    token.Position
	target string
	reason string
}

func (f finding) String() string {
	return fmt.Sprintf("%s:%d imports %q: %s", filepath.ToSlash(f.pos.Filename), f.pos.Line, f.target, f.reason)
}

func main() {
	findings, err := scan("contexts")
	if err != nil {
		fmt.Fprintln(os.Stderr, "boundary scan failed:", err)
		os.Exit(2)
	}
	if len(findings) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	slices.SortFunc(findings, func(a, b finding) int {
		if c := strings.Compare(a.pos.Filename, b.pos.Filename); c != 0 {
			return c
		}
		return a.pos.Line - b.pos.Line
	})
	fmt.Printf("%d boundary violation(s):\n", len(findings))
	for _, f := range findings {
		fmt.Println("  " + f.String())
	}
	os.Exit(1)
}

func scan(root string) ([]finding, error) {
	var out []finding
	fset := token.NewFileSet()

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(p) != ".go" || strings.HasSuffix(p, "_test.go") {
			return nil
		}

		// contexts/<context>/<service>/<layer>/...
		segments := strings.Split(filepath.ToSlash(p), "/")
		if len(segments) < 5 {
			return nil
		}
		service := path.Join(modulePath, path.Join(segments[:3]...))
		policy, ok := policies[segments[3]]
		if !ok {
			return nil
		}

		file, err := parser.ParseFile(fset, p, nil, parser.ImportsOnly)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		for _, imp := range file.Imports {
			target := strings.Trim(imp.Path.Value, `"`)
			if reason := policy.check(service, target); reason != "" {
				out = append(out, finding{pos: fset.Position(imp.Pos()), target: target, reason: reason})
			}
		}
		return nil
	})
	return out, err
}

// check returns an empty string when target is acceptable.
func (lp layerPolicy) check(service, target string) string {
	if isStandardLibrary(target) {
		return ""
	}
	if within(target, modulePath+"/contexts") && !within(target, service) {
		return "services must not import each other"
	}
	if within(target, modulePath+"/internal") {
		return "runtime infrastructure belongs in internal/app/bootstrap"
	}
	for _, layer := range lp.forbidden {
		if within(target, service+"/"+layer) {
			return "layer must not depend on " + layer
		}
	}
	for _, layer := range lp.local {
		if within(target, service+"/"+layer) {
			return ""
		}
	}
	for _, prefix := range lp.shared {
		if within(target, prefix) {
			return ""
		}
	}
	return "not in the layer allowlist"
}

func within(importPath, prefix string) bool {
	return importPath == prefix || strings.HasPrefix(importPath, prefix+"/")
}

// Standard library paths have no dot in their first element.
func isStandardLibrary(importPath string) bool {
	if within(importPath, modulePath) {
		return false
	}
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
