// Package compose derives the renderable visualization graph from a
// topology snapshot and the current cluster expansion state.
//
// The same underlying connection data is displayed at two granularities:
// a collapsed cluster is a single node and all of its devices' links are
// aggregated onto it, while an expanded cluster shows one node per device
// with device-level links. Which granularity applies is decided per
// cluster by the ViewState, toggled independently of topology refreshes.
//
// Composition is a pure function of its two inputs. It holds no state,
// performs no I/O, and recomputes the whole graph from scratch on every
// call, so calling it twice with unchanged inputs yields identical output
// in identical order. Referential defects in the snapshot (a cluster
// listing an unknown device id, a connection naming a device whose
// cluster cannot be found) are filtered silently; transient or partially
// synced topology data must never crash the visualization.
package compose
