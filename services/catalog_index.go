package services

// CatalogIndex is an in-memory, read-only view over the component catalog.
// It keeps entries in catalog order and an exact-key map for full lookups.
type CatalogIndex struct {
	entries []CatalogEntry
	byKey   map[ComponentKey]int
}

// NewCatalogIndex builds an index over entries. The slice is copied so later
// edits by the caller do not leak into the index. If two entries share a
// composite key the first one wins the exact lookup.
func NewCatalogIndex(entries []CatalogEntry) *CatalogIndex {
	idx := &CatalogIndex{
		entries: make([]CatalogEntry, len(entries)),
		byKey:   make(map[ComponentKey]int, len(entries)),
	}
	copy(idx.entries, entries)
	for i, e := range idx.entries {
		if _, exists := idx.byKey[e.ComponentKey]; !exists {
			idx.byKey[e.ComponentKey] = i
		}
	}
	return idx
}

// Len returns the number of catalog entries.
func (idx *CatalogIndex) Len() int {
	return len(idx.entries)
}

// Entries returns a copy of all entries in catalog order.
func (idx *CatalogIndex) Entries() []CatalogEntry {
	out := make([]CatalogEntry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// OptionsFor returns the distinct values target takes across entries matching
// every non-empty attribute of partial other than target itself. Values keep
// catalog order. An empty result means no further narrowing is possible.
func (idx *CatalogIndex) OptionsFor(partial ComponentKey, target Attribute) []string {
	if cascadeIndex(target) < 0 {
		return []string{}
	}

	seen := make(map[string]bool)
	options := []string{}
	for i := range idx.entries {
		e := &idx.entries[i]
		if !matches(e.ComponentKey, partial, target) {
			continue
		}
		v := e.Get(target)
		if !seen[v] {
			seen[v] = true
			options = append(options, v)
		}
	}
	return options
}

// Match returns every entry whose attributes equal all non-empty attributes of key.
func (idx *CatalogIndex) Match(key ComponentKey) []CatalogEntry {
	var out []CatalogEntry
	for i := range idx.entries {
		if matches(idx.entries[i].ComponentKey, key, "") {
			out = append(out, idx.entries[i])
		}
	}
	return out
}

// Lookup returns the entry with exactly this composite key.
func (idx *CatalogIndex) Lookup(key ComponentKey) (CatalogEntry, bool) {
	i, ok := idx.byKey[key]
	if !ok {
		return CatalogEntry{}, false
	}
	return idx.entries[i], true
}

// matches reports whether candidate agrees with every non-empty attribute of
// filter, ignoring the skip attribute. Single pass, short-circuits on mismatch.
func matches(candidate, filter ComponentKey, skip Attribute) bool {
	for _, a := range CascadeOrder {
		if a == skip {
			continue
		}
		want := filter.Get(a)
		if want == "" {
			continue
		}
		if candidate.Get(a) != want {
			return false
		}
	}
	return true
}
