package scene

// NodeKind enumerates the types of nodes in the scene.
type NodeKind int

const (
	NodePolygon NodeKind = iota // explicit vertex list
	NodeBox                     // axis-aligned box
	NodeClip                    // one subject clipped by one region
	NodeClipAll                 // every listed subject clipped by one region
)

func (k NodeKind) String() string {
	switch k {
	case NodePolygon:
		return "polygon"
	case NodeBox:
		return "box"
	case NodeClip:
		return "clip"
	case NodeClipAll:
		return "clip-all"
	default:
		return "unknown"
	}
}

// IsGeometry reports whether nodes of kind k evaluate to a single polygon
// and can therefore be used as a clip operand.
func (k NodeKind) IsGeometry() bool {
	return k == NodePolygon || k == NodeBox || k == NodeClip
}

// Node is the fundamental element of the scene graph. Children lists every
// node this node reads, in operand order.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// Label returns the node's name, or its short id when unnamed.
func (n *Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
