package core

import (
	"strings"
	"sync"
)

// DefaultCategories seeds every new CategoryRegistry.
var DefaultCategories = []string{
	"Food & Dining", "Transportation", "Shopping", "Entertainment",
	"Bills & Utilities", "Healthcare", "Travel", "Education",
	"Business", "Personal Care", "Gifts & Donations", "Investment",
}

// CategoryRegistry is an ordered set of known category names used for
// suggestions. It never restricts which category a record may hold.
type CategoryRegistry struct {
	mu    sync.RWMutex
	names []string
	seen  map[string]struct{}
}

// NewCategoryRegistry returns a registry seeded with names, or with
// DefaultCategories when none are given.
func NewCategoryRegistry(names ...string) *CategoryRegistry {
	if len(names) == 0 {
		names = DefaultCategories
	}
	r := &CategoryRegistry{seen: map[string]struct{}{}}
	for _, n := range names {
		r.add(n)
	}
	return r
}

// Names returns the categories in registration order.
func (r *CategoryRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}

// Contains reports whether name is registered.
func (r *CategoryRegistry) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.seen[strings.TrimSpace(name)]
	return ok
}

// Add registers name and reports whether it was new.
func (r *CategoryRegistry) Add(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.add(name)
}

func (r *CategoryRegistry) add(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if _, ok := r.seen[name]; ok {
		return false
	}
	r.seen[name] = struct{}{}
	r.names = append(r.names, name)
	return true
}

// Suggest returns the registered names starting with prefix, case-insensitively.
func (r *CategoryRegistry) Suggest(prefix string) []string {
	p := strings.ToLower(strings.TrimSpace(prefix))
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, n := range r.names {
		if strings.HasPrefix(strings.ToLower(n), p) {
			out = append(out, n)
		}
	}
	return out
}
