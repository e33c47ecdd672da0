// Package catalog exposes the built-in product category taxonomy and the
// keyword map used to classify external products.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var categoriesYAML []byte

// Entry is one seeded category.
type Entry struct {
	Name     string   `yaml:"name"`
	Icon     string   `yaml:"icon"`
	Keywords []string `yaml:"keywords"`
}

type document struct {
	Categories []Entry `yaml:"categories"`
}

var (
	loadOnce sync.Once
	entries  []Entry
	loadErr  error
)

// Parse decodes a category document.
func Parse(data []byte) ([]Entry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse category catalog: %w", err)
	}
	seen := make(map[string]bool, len(doc.Categories))
	for _, e := range doc.Categories {
		if e.Name == "" || e.Icon == "" {
			return nil, fmt.Errorf("category catalog entry missing name or icon: %+v", e)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("duplicate category %q in catalog", e.Name)
		}
		seen[e.Name] = true
	}
	return doc.Categories, nil
}

// Categories returns the built-in categories in catalog order.
func Categories() ([]Entry, error) {
	loadOnce.Do(func() {
		entries, loadErr = Parse(categoriesYAML)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out, nil
}

// Match returns the name of the first category with a keyword contained in
// any of tags. Tags may carry a language prefix such as "en:".
func Match(entries []Entry, tags []string) (string, bool) {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		cleaned = append(cleaned, strings.TrimPrefix(t, "en:"))
	}
	for _, e := range entries {
		for _, kw := range e.Keywords {
			for _, tag := range cleaned {
				if strings.Contains(tag, kw) {
					return e.Name, true
				}
			}
		}
	}
	return "", false
}
