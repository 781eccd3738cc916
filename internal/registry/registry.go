package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vk/patchbaygo/internal/engine"
)

// Module is the interface all module packages implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Info describes one registered module type.
type Info struct {
	// Type is the key used in patch files, e.g. "oscillator".
	Type string

	// Category is a slash-separated path, e.g. "Effects" or "Effects/Spatial".
	Category string

	// Summary is a one-line description shown by the module browser.
	Summary string

	// NewParams returns a fresh parameter struct, pre-filled with defaults,
	// to be decoded from the module's patch block.
	NewParams func() any

	// New builds a module instance from a decoded parameter struct.
	New func(params any, cfg engine.Config) (engine.Ported, error)
}

// DisplayName returns the human-readable name for the type key.
func (i *Info) DisplayName() string {
	return DisplayName(i.Type)
}

// categoryNode is one level of the category tree.
type categoryNode struct {
	name     string
	modules  []*Info
	children map[string]*categoryNode
}

func newCategoryNode(name string) *categoryNode {
	return &categoryNode{name: name, children: make(map[string]*categoryNode)}
}

// all returns the node's modules plus those of every subcategory.
func (n *categoryNode) all() []*Info {
	result := append([]*Info(nil), n.modules...)
	for _, child := range n.children {
		result = append(result, child.all()...)
	}
	return result
}

// Registry holds the module catalog for a single application instance.
type Registry struct {
	infos map[string]*Info
	tree  *categoryNode
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		infos: make(map[string]*Info),
		tree:  newCategoryNode("Root"),
	}
}

// RegisterModule adds a module type to the catalog. Duplicate type keys and
// incomplete Infos are programmer errors and panic.
func (r *Registry) RegisterModule(info *Info) {
	if info.Type == "" {
		panic("registry: module type key must not be empty")
	}
	if info.NewParams == nil || info.New == nil {
		panic(fmt.Sprintf("registry: module %q must provide NewParams and New", info.Type))
	}
	if _, exists := r.infos[info.Type]; exists {
		panic(fmt.Sprintf("module type %q already registered", info.Type))
	}
	slog.Debug("Registering module type.", "type", info.Type, "category", info.Category)

	r.infos[info.Type] = info

	node := r.tree
	category := info.Category
	if category == "" {
		category = "Other"
	}
	for _, part := range strings.Split(category, "/") {
		child, ok := node.children[part]
		if !ok {
			child = newCategoryNode(part)
			node.children[part] = child
		}
		node = child
	}
	node.modules = append(node.modules, info)
}

// Get returns the Info for a type key.
func (r *Registry) Get(typeKey string) (*Info, bool) {
	info, ok := r.infos[typeKey]
	return info, ok
}

// Types returns all registered type keys in sorted order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.infos))
	for key := range r.infos {
		types = append(types, key)
	}
	sort.Strings(types)
	return types
}

// Categories returns the top-level category names in sorted order.
func (r *Registry) Categories() []string {
	names := make([]string, 0, len(r.tree.children))
	for name := range r.tree.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InCategory returns all modules under a category path, including
// subcategories, sorted by display name. An unknown path yields nil.
func (r *Registry) InCategory(category string) []*Info {
	node := r.tree
	for _, part := range strings.Split(category, "/") {
		child, ok := node.children[part]
		if !ok {
			return nil
		}
		node = child
	}

	result := node.all()
	sort.Slice(result, func(i, j int) bool {
		return result[i].DisplayName() < result[j].DisplayName()
	})
	return result
}

// Search returns modules whose display name or type key contains the query,
// case-insensitively, sorted by display name.
func (r *Registry) Search(query string) []*Info {
	q := strings.ToLower(query)
	var result []*Info
	for _, info := range r.infos {
		if strings.Contains(strings.ToLower(info.DisplayName()), q) ||
			strings.Contains(strings.ToLower(info.Type), q) {
			result = append(result, info)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DisplayName() < result[j].DisplayName()
	})
	return result
}
