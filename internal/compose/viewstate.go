package compose

import "sort"

// ViewState is the set of cluster ids currently shown at device
// granularity. Absence means collapsed. The zero value of the underlying
// map is not usable; create with NewViewState.
//
// ViewState is not safe for concurrent mutation; the owner (the service
// layer) serializes toggles. Composition only reads it.
type ViewState map[string]struct{}

// NewViewState returns an all-collapsed view state
func NewViewState() ViewState {
	return make(ViewState)
}

// Toggle flips the expansion state of a cluster and reports whether the
// cluster is expanded afterwards.
func (v ViewState) Toggle(clusterID string) bool {
	if _, ok := v[clusterID]; ok {
		delete(v, clusterID)
		return false
	}
	v[clusterID] = struct{}{}
	return true
}

// IsExpanded reports whether a cluster is shown at device granularity
func (v ViewState) IsExpanded(clusterID string) bool {
	_, ok := v[clusterID]
	return ok
}

// Clone returns an independent copy of the view state
func (v ViewState) Clone() ViewState {
	c := make(ViewState, len(v))
	for id := range v {
		c[id] = struct{}{}
	}
	return c
}

// Sorted returns the expanded cluster ids in lexical order
func (v ViewState) Sorted() []string {
	ids := make([]string, 0, len(v))
	for id := range v {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
