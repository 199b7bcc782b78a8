package common

import "sort"

// GUIDSet is a set of GUIDs
type GUIDSet map[GUID]struct{}

// Contains checks if GUID is in GUIDSet
func (gs GUIDSet) Contains(g GUID) bool {
	_, ok := gs[g]
	return ok
}

// Add adds GUID to GUIDSet
func (gs GUIDSet) Add(g GUID) {
	gs[g] = struct{}{}
}

// Del removes GUID from GUIDSet
func (gs GUIDSet) Del(g GUID) {
	delete(gs, g)
}

// ToList converts GUIDSet to a sorted slice
func (gs GUIDSet) ToList() []GUID {
	list := make([]GUID, 0, len(gs))
	for g := range gs {
		list = append(list, g)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i] < list[j]
	})
	return list
}
