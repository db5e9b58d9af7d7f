package scene

import "github.com/google/uuid"

// namespace seeds the name-based node ids.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/chazu/hodgman/scene"))

// NodeID identifies a node. Ids are derived from the node's path, so the
// same script always produces the same ids.
type NodeID string

// ZeroID is the unset NodeID.
const ZeroID NodeID = ""

// NewNodeID returns the deterministic id for a node path such as
// "polygon/subject".
func NewNodeID(path string) NodeID {
	return NodeID(uuid.NewSHA1(namespace, []byte(path)).String())
}

// IsZero reports whether id is unset.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

// Short returns the first 8 characters of id for messages.
func (id NodeID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

func (id NodeID) String() string {
	return string(id)
}
