package species

// NameMap is an in-memory index of the naming service's species list.
// Lookup is case-insensitive and whitespace-normalized; when an exact
// name has no entry, the simple canonical form is tried so that names
// with authorship or annotation noise still match.
type NameMap struct {
	byName  map[string]int64
	byCanon map[string]int64
	byID    map[int64]string
}

// NewNameMap indexes a species name to name id map. The pool is used to
// build the canonical index; nil disables the canonical fallback.
func NewNameMap(names map[string]int64, pool Pool) *NameMap {
	m := &NameMap{
		byName:  make(map[string]int64, len(names)),
		byCanon: make(map[string]int64, len(names)),
		byID:    make(map[int64]string, len(names)),
	}
	for name, id := range names {
		m.byName[Normalize(name)] = id
		if _, ok := m.byID[id]; !ok {
			m.byID[id] = name
		}
		if pool != nil {
			if canon := pool.Canonical(name); canon != "" {
				if _, ok := m.byCanon[Normalize(canon)]; !ok {
					m.byCanon[Normalize(canon)] = id
				}
			}
		}
	}
	return m
}

// Len returns the number of indexed names.
func (m *NameMap) Len() int { return len(m.byName) }

// Lookup returns the name id for a species name; ok is false when
// neither the normalized name nor its canonical form is known.
func (m *NameMap) Lookup(name string) (int64, bool) {
	if id, ok := m.byName[Normalize(name)]; ok {
		return id, true
	}
	if id, ok := m.byCanon[Normalize(name)]; ok {
		return id, true
	}
	return 0, false
}

// LookupOrNotFound returns the name id, or NameIDNotFound when the name
// is unknown.
func (m *NameMap) LookupOrNotFound(name string) int64 {
	if id, ok := m.Lookup(name); ok {
		return id
	}
	return NameIDNotFound
}

// NameByID returns the service's spelling of the name behind an id.
func (m *NameMap) NameByID(id int64) (string, bool) {
	name, ok := m.byID[id]
	return name, ok
}
