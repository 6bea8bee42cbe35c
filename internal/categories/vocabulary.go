package categories

import (
	"slices"
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// Vocabulary maps each kind to the category names allowed for it.
type Vocabulary map[model.Kind][]string

// For returns a copy of the categories allowed for kind, in display order.
func (v Vocabulary) For(kind model.Kind) []string {
	return slices.Clone(v[kind])
}

// Allowed reports whether name is a category of kind.
func (v Vocabulary) Allowed(kind model.Kind, name string) bool {
	return slices.Contains(v[kind], name)
}

// Lookup resolves name case-insensitively against kind's categories and
// returns the canonical spelling.
func (v Vocabulary) Lookup(kind model.Kind, name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, c := range v[kind] {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

// KindOf returns the kind a category belongs to, matching name the way
// Lookup does.
func (v Vocabulary) KindOf(name string) (model.Kind, bool) {
	for _, k := range model.Kinds {
		if _, ok := v.Lookup(k, name); ok {
			return k, true
		}
	}
	return "", false
}
