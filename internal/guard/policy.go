// Package guard detects raw host-language statements in template text.
//
// Templates embed host expressions, never statements. A line of text that
// begins with a statement keyword almost always means the author forgot the
// directive syntax, so the parser rejects it early with a dedicated error
// instead of passing garbage downstream.
package guard

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed policy.yaml
var defaultPolicy []byte

// Policy holds the list of statement prefixes rejected in text position.
// Prefixes ending in a space only match when followed by more input, so plain
// prose words like "for" or "if" on their own stay legal text.
type Policy struct {
	Version  int      `yaml:"version"`
	Keywords []string `yaml:"keywords"`
}

// Default returns the built-in policy. The embedded file is validated at
// package init, so Default never fails.
func Default() *Policy {
	p, err := parse(defaultPolicy)
	if err != nil {
		panic(fmt.Sprintf("guard: embedded policy is invalid: %v", err))
	}
	return p
}

// Load reads a policy file from disk, for projects that want to widen or
// narrow the built-in keyword list.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("guard: read policy: %w", err)
	}
	p, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("guard: policy %s: %w", path, err)
	}
	return p, nil
}

func parse(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if len(p.Keywords) == 0 {
		return nil, fmt.Errorf("no keywords defined")
	}
	return &p, nil
}

// Match reports whether text begins with a forbidden statement. The text is
// trimmed first, so indentation never hides a statement. On a match it
// returns the offending keyword with trailing punctuation and space removed.
func (p *Policy) Match(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}
	for _, kw := range p.Keywords {
		if !strings.HasPrefix(trimmed, kw) {
			continue
		}
		// Bare words like "break" must stand alone or start a statement,
		// not merely prefix a longer word ("breakfast").
		if !strings.HasSuffix(kw, " ") && !strings.HasSuffix(kw, ":") {
			rest := trimmed[len(kw):]
			if rest != "" && !startsWithBoundary(rest) {
				continue
			}
		}
		return strings.TrimRight(kw, ": "), true
	}
	return "", false
}

func startsWithBoundary(s string) bool {
	switch s[0] {
	case ' ', '\t', '\n', '\r', ';', ':', '(', ')':
		return true
	}
	return false
}
