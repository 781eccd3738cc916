package engine

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// Ported is the full module contract the graph works with: audio generation
// plus port lookup. Every module satisfies it by embedding Node.
type Ported interface {
	Module
	Inlet(name string) *Inlet
	Outlet(name string) *Outlet
	InletNames() []string
	OutletNames() []string
	DisconnectAll()
}

// PortRef addresses one port of one named module instance.
type PortRef struct {
	Module string
	Port   string
}

// String returns the canonical "instance.port" form of the reference.
func (r PortRef) String() string {
	return r.Module + "." + r.Port
}

// Connection records one wired edge of the graph.
type Connection struct {
	From PortRef
	To   PortRef
}

// Graph owns the named module instances of a patch and the connections
// between them. It is assembled once by the patch builder and then only read
// by the audio thread, but mutations are guarded so a control surface can
// safely inspect it while audio runs.
type Graph struct {
	mu          sync.RWMutex
	modules     map[string]Ported
	connections []Connection
}

// NewGraph returns an initialized, empty graph.
func NewGraph() *Graph {
	return &Graph{modules: make(map[string]Ported)}
}

// Add registers a module instance under a unique name.
func (g *Graph) Add(name string, m Ported) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if name == "" {
		return fmt.Errorf("module instance name must not be empty")
	}
	if _, exists := g.modules[name]; exists {
		return fmt.Errorf("duplicate module instance name %q", name)
	}
	g.modules[name] = m
	return nil
}

// Module returns the named instance.
func (g *Graph) Module(name string) (Ported, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	m, ok := g.modules[name]
	return m, ok
}

// Names returns all instance names in sorted order.
func (g *Graph) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	names := make([]string, 0, len(g.modules))
	for name := range g.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Connections returns a copy of the wired edges.
func (g *Graph) Connections() []Connection {
	g.mu.RLock()
	defer g.mu.RUnlock()
	conns := make([]Connection, len(g.connections))
	copy(conns, g.connections)
	return conns
}

// Connect wires from's outlet into to's inlet. Both instances and both ports
// must exist. The connection displaces any previous one on either port.
func (g *Graph) Connect(from, to PortRef) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	src, ok := g.modules[from.Module]
	if !ok {
		return fmt.Errorf("unknown source module %q", from.Module)
	}
	dst, ok := g.modules[to.Module]
	if !ok {
		return fmt.Errorf("unknown destination module %q", to.Module)
	}
	if from.Module == to.Module {
		return fmt.Errorf("self-referential connection not allowed: %s -> %s", from, to)
	}

	outlet := src.Outlet(from.Port)
	if outlet == nil {
		return fmt.Errorf("module %q has no outlet %q (have %v)", from.Module, from.Port, src.OutletNames())
	}
	inlet := dst.Inlet(to.Port)
	if inlet == nil {
		return fmt.Errorf("module %q has no inlet %q (have %v)", to.Module, to.Port, dst.InletNames())
	}

	outlet.Connect(inlet)

	// Connecting displaces any previous wiring on either port, so edges that
	// shared this outlet or this inlet are gone from the live graph and must
	// leave the edge list too.
	kept := g.connections[:0]
	for _, c := range g.connections {
		if c.From == from || c.To == to {
			continue
		}
		kept = append(kept, c)
	}
	g.connections = append(kept, Connection{From: from, To: to})
	return nil
}

// DetectCycles checks the connection list for loops. A cycle would make the
// pull model recurse without bound, so patches containing one are rejected.
func (g *Graph) DetectCycles() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	// Downstream adjacency by instance name.
	downstream := make(map[string][]string)
	for _, c := range g.connections {
		downstream[c.From.Module] = append(downstream[c.From.Module], c.To.Module)
	}

	// Depth-first search with temporary marks for the current path and
	// permanent marks for nodes already known to be safe.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(name string) error
	visit = func(name string) error {
		if permanent[name] {
			return nil
		}
		if temporary[name] {
			return fmt.Errorf("cycle detected involving module %q", name)
		}
		temporary[name] = true
		for _, next := range downstream[name] {
			if err := visit(next); err != nil {
				return err
			}
		}
		delete(temporary, name)
		permanent[name] = true
		return nil
	}

	for name := range g.modules {
		if !permanent[name] {
			if err := visit(name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close disconnects every module's ports and closes modules that hold
// external resources. The graph is unusable afterwards.
func (g *Graph) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, m := range g.modules {
		m.DisconnectAll()
		if c, ok := m.(io.Closer); ok {
			_ = c.Close()
		}
	}
}
