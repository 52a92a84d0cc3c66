// Package catalog holds the immutable set of known category slugs.
//
// A Catalog is built once at startup and never mutated afterwards, so it
// can be shared by every request goroutine without locking.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrEmpty is returned when a catalog would contain no slugs.
var ErrEmpty = errors.New("category catalog is empty")

// Entry is a single category as exposed by the reference endpoint.
type Entry struct {
	Slug string `json:"slug" yaml:"slug"`
	Name string `json:"name" yaml:"name"`
}

type Catalog struct {
	set     map[string]Entry
	entries []Entry
}

// New builds a catalog from bare slugs; the display name defaults to the slug.
func New(slugs ...string) (*Catalog, error) {
	entries := make([]Entry, 0, len(slugs))
	for _, s := range slugs {
		entries = append(entries, Entry{Slug: s, Name: s})
	}
	return FromEntries(entries)
}

// FromEntries builds a catalog from entries. Slugs are kept verbatim (no
// case folding); blank slugs are an error, duplicates keep the first entry.
func FromEntries(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		set:     make(map[string]Entry, len(entries)),
		entries: make([]Entry, 0, len(entries)),
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Slug) == "" {
			return nil, fmt.Errorf("category %d: blank slug", i)
		}
		if _, dup := c.set[e.Slug]; dup {
			continue
		}
		if e.Name == "" {
			e.Name = e.Slug
		}
		c.set[e.Slug] = e
		c.entries = append(c.entries, e)
	}
	if len(c.entries) == 0 {
		return nil, ErrEmpty
	}
	sort.Slice(c.entries, func(i, j int) bool { return c.entries[i].Slug < c.entries[j].Slug })
	return c, nil
}

// Contains reports exact, case-sensitive membership.
func (c *Catalog) Contains(slug string) bool {
	_, ok := c.set[slug]
	return ok
}

// Lookup returns the entry for an exact slug.
func (c *Catalog) Lookup(slug string) (Entry, bool) {
	e, ok := c.set[slug]
	return e, ok
}

func (c *Catalog) Len() int { return len(c.entries) }

// Slugs returns a sorted copy of all slugs.
func (c *Catalog) Slugs() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Slug
	}
	return out
}

// Entries returns a sorted copy of all entries.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}
