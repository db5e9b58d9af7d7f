package scene

import "github.com/chazu/hodgman/pkg/geom"

// PolygonData is an explicit vertex ring.
type PolygonData struct {
	Vertices geom.Polygon `json:"vertices"`
}

func (PolygonData) nodeData() {}

// BoxData is an axis-aligned box. It clips through the box-edge fast path.
type BoxData struct {
	Box geom.Box `json:"box"`
}

func (BoxData) nodeData() {}

// ClipData clips Subject by the convex Region. Both are geometry nodes.
type ClipData struct {
	Subject NodeID `json:"subject"`
	Region  NodeID `json:"region"`
}

func (ClipData) nodeData() {}

// ClipAllData clips each of Subjects by Region, producing one output per
// subject.
type ClipAllData struct {
	Region   NodeID   `json:"region"`
	Subjects []NodeID `json:"subjects"`
}

func (ClipAllData) nodeData() {}
