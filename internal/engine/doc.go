// Package engine implements the pull-model audio graph.
//
// Modules produce blocks of interleaved stereo samples on demand. A module
// that consumes audio pulls it through an Inlet, which forwards the request
// to the Outlet of the upstream module. Unconnected inlets yield silence, so
// a half-wired patch still runs.
//
// Ports are strictly one-to-one: connecting an outlet to an inlet displaces
// whatever either end was previously connected to. Fan-out is an explicit
// module concern (see modules/split), which keeps the data flow of a patch
// readable from its connection list alone.
//
// The Graph tracks named module instances and their connections and rejects
// cycles up front; with a pull model a cycle would recurse without bound.
package engine
