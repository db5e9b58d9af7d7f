package scene

import "fmt"

// Scene is the top-level data structure produced by script evaluation.
// It is never mutated after evaluation; each evaluation produces a new
// scene.
type Scene struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Order     []NodeID          `json:"order"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Version   uint64            `json:"version"`

	anon uint64
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// AddNode adds a node to the scene. It does not check for duplicates; a
// repeated id keeps its first position in Order.
func (s *Scene) AddNode(n *Node) {
	if _, exists := s.Nodes[n.ID]; !exists {
		s.Order = append(s.Order, n.ID)
	}
	s.Nodes[n.ID] = n
	if n.Name != "" {
		s.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as an output of the scene.
func (s *Scene) AddRoot(id NodeID) {
	s.Roots = append(s.Roots, id)
}

// NextAnon returns a fresh name for an unnamed node. Names are unique
// within the scene and stable across evaluations of the same script.
func (s *Scene) NextAnon(prefix string) string {
	s.anon++
	return fmt.Sprintf("%s/_anon_%d", prefix, s.anon)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (s *Scene) Lookup(name string) *Node {
	id, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (s *Scene) MustLookup(name string) *Node {
	n := s.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("scene: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (s *Scene) Get(id NodeID) *Node {
	return s.Nodes[id]
}

// Polygons returns the polygon nodes in insertion order.
func (s *Scene) Polygons() []*Node {
	return s.ofKind(NodePolygon)
}

// Boxes returns the box nodes in insertion order.
func (s *Scene) Boxes() []*Node {
	return s.ofKind(NodeBox)
}

func (s *Scene) ofKind(kind NodeKind) []*Node {
	var out []*Node
	for _, id := range s.Order {
		if n := s.Nodes[id]; n != nil && n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Outputs returns the root nodes in the order they were registered.
func (s *Scene) Outputs() []*Node {
	out := make([]*Node, 0, len(s.Roots))
	for _, id := range s.Roots {
		if n := s.Nodes[id]; n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Children returns the child nodes of the given node.
func (s *Scene) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := s.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (s *Scene) NodeCount() int {
	return len(s.Nodes)
}
