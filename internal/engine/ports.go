package engine

import "sort"

// Module produces one block of interleaved stereo audio per call. Generate is
// invoked from the audio callback; implementations must not block.
type Module interface {
	Generate(frames int) Buffer
}

// Config carries the stream parameters a module is built against.
type Config struct {
	SampleRate int
}

// Inlet receives audio from a connected Outlet. An unconnected inlet pulls
// silence, so modules never need to nil-check their sources.
type Inlet struct {
	name string
	from *Outlet
}

// Name returns the inlet's port name.
func (in *Inlet) Name() string { return in.name }

// Connected reports whether an outlet is attached.
func (in *Inlet) Connected() bool { return in.from != nil }

// Pull requests a block from the connected outlet's module, or silence if
// nothing is connected.
func (in *Inlet) Pull(frames int) Buffer {
	if in.from == nil {
		return NewBuffer(frames)
	}
	return in.from.owner.Generate(frames)
}

// Disconnect detaches the inlet from its outlet, if any.
func (in *Inlet) Disconnect() {
	if in.from != nil {
		in.from.to = nil
		in.from = nil
	}
}

// Outlet sends audio from its owning module to a connected Inlet.
type Outlet struct {
	name  string
	owner Module
	to    *Inlet
}

// Name returns the outlet's port name.
func (out *Outlet) Name() string { return out.name }

// Connected reports whether an inlet is attached.
func (out *Outlet) Connected() bool { return out.to != nil }

// Connect attaches the outlet to an inlet. Ports are one-to-one: any previous
// connection on either end is displaced first.
func (out *Outlet) Connect(in *Inlet) {
	out.Disconnect()
	in.Disconnect()
	out.to = in
	in.from = out
}

// Disconnect detaches the outlet from its inlet, if any.
func (out *Outlet) Disconnect() {
	if out.to != nil {
		out.to.from = nil
		out.to = nil
	}
}

// Node is the embeddable port table shared by every module implementation.
// Constructors declare their ports with AddInlet/AddOutlet; the patch builder
// looks them up by name when wiring connections.
type Node struct {
	inlets  map[string]*Inlet
	outlets map[string]*Outlet
}

// AddInlet declares a named inlet and returns it.
func (n *Node) AddInlet(name string) *Inlet {
	if n.inlets == nil {
		n.inlets = make(map[string]*Inlet)
	}
	in := &Inlet{name: name}
	n.inlets[name] = in
	return in
}

// AddOutlet declares a named outlet owned by the given module and returns it.
func (n *Node) AddOutlet(name string, owner Module) *Outlet {
	if n.outlets == nil {
		n.outlets = make(map[string]*Outlet)
	}
	out := &Outlet{name: name, owner: owner}
	n.outlets[name] = out
	return out
}

// Inlet returns the named inlet, or nil if the module does not have one.
func (n *Node) Inlet(name string) *Inlet { return n.inlets[name] }

// Outlet returns the named outlet, or nil if the module does not have one.
func (n *Node) Outlet(name string) *Outlet { return n.outlets[name] }

// InletNames returns the declared inlet names in sorted order.
func (n *Node) InletNames() []string {
	names := make([]string, 0, len(n.inlets))
	for name := range n.inlets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OutletNames returns the declared outlet names in sorted order.
func (n *Node) OutletNames() []string {
	names := make([]string, 0, len(n.outlets))
	for name := range n.outlets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DisconnectAll detaches every port. Called when a module is torn down.
func (n *Node) DisconnectAll() {
	for _, in := range n.inlets {
		in.Disconnect()
	}
	for _, out := range n.outlets {
		out.Disconnect()
	}
}

// Default port names. Single-input single-output modules use these, which
// lets patch files omit the port half of an address.
const (
	DefaultInlet  = "in"
	DefaultOutlet = "out"
)
