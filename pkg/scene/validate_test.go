package scene

import (
	"strings"
	"testing"

	"github.com/chazu/hodgman/pkg/geom"
)

func makePolygon(name string, vertices ...geom.Vertex) *Node {
	return &Node{
		ID:   NewNodeID("polygon/" + name),
		Kind: NodePolygon,
		Name: name,
		Data: PolygonData{Vertices: vertices},
	}
}

func makeBox(name string, b geom.Box) *Node {
	return &Node{
		ID:   NewNodeID("box/" + name),
		Kind: NodeBox,
		Name: name,
		Data: BoxData{Box: b},
	}
}

func makeClip(name string, subject, region NodeID) *Node {
	return &Node{
		ID:       NewNodeID("clip/" + name),
		Kind:     NodeClip,
		Name:     name,
		Children: []NodeID{subject, region},
		Data:     ClipData{Subject: subject, Region: region},
	}
}

// simpleScene is the worked example: a pentagon clipped by a box.
func simpleScene() *Scene {
	s := New()
	subject := makePolygon("subject",
		geom.V(1, 2), geom.V(2, 1), geom.V(4, 1), geom.V(4, 2), geom.V(3, 3))
	window := makeBox("window", geom.Box{XMin: 0, YMin: 0, XMax: 2.5, YMax: 2.5})
	result := makeClip("result", subject.ID, window.ID)
	s.AddNode(subject)
	s.AddNode(window)
	s.AddNode(result)
	s.AddRoot(result.ID)
	return s
}

func hasMessage(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func hasWarning(warnings []ValidationWarning, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidateSimpleScene(t *testing.T) {
	res := ValidateAll(simpleScene())
	if !res.OK() {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestValidateEmptyScene(t *testing.T) {
	if errs := Validate(New()); len(errs) != 0 {
		t.Errorf("empty scene should be valid, got %v", errs)
	}
}

func TestValidateCycle(t *testing.T) {
	s := New()
	a := &Node{ID: NewNodeID("clip/a"), Kind: NodeClip, Name: "a"}
	b := &Node{ID: NewNodeID("clip/b"), Kind: NodeClip, Name: "b"}
	a.Children = []NodeID{b.ID}
	a.Data = ClipData{Subject: b.ID, Region: b.ID}
	b.Children = []NodeID{a.ID}
	b.Data = ClipData{Subject: a.ID, Region: a.ID}
	s.AddNode(a)
	s.AddNode(b)
	s.AddRoot(a.ID)

	errs := Validate(s)
	if !hasMessage(errs, "cycle detected") {
		t.Errorf("expected cycle error, got %v", errs)
	}
}

func TestValidateDanglingReference(t *testing.T) {
	s := New()
	box := makeBox("window", geom.Box{XMax: 1, YMax: 1})
	clip := makeClip("result", NewNodeID("polygon/ghost"), box.ID)
	s.AddNode(box)
	s.AddNode(clip)
	s.AddRoot(clip.ID)

	errs := Validate(s)
	if !hasMessage(errs, "does not exist") {
		t.Errorf("expected dangling reference error, got %v", errs)
	}
}

func TestValidateUnsetOperand(t *testing.T) {
	s := New()
	box := makeBox("window", geom.Box{XMax: 1, YMax: 1})
	clip := &Node{ID: NewNodeID("clip/x"), Kind: NodeClip, Name: "x", Data: ClipData{Region: box.ID}}
	s.AddNode(box)
	s.AddNode(clip)
	s.AddRoot(clip.ID)

	if errs := Validate(s); !hasMessage(errs, "unset operand") {
		t.Errorf("expected unset operand error, got %v", errs)
	}
}

func TestValidateDuplicateNames(t *testing.T) {
	s := simpleScene()
	dup := makePolygon("other", geom.V(0, 0), geom.V(1, 0), geom.V(0, 1))
	dup.Name = "subject"
	s.AddNode(dup)

	if errs := Validate(s); !hasMessage(errs, `duplicate name "subject"`) {
		t.Errorf("expected duplicate name error, got %v", errs)
	}
}

func TestValidateRootKinds(t *testing.T) {
	s := simpleScene()
	s.AddRoot(s.MustLookup("window").ID)
	s.AddRoot(NewNodeID("clip/missing"))

	errs := Validate(s)
	if !hasMessage(errs, "not a clip operation") {
		t.Errorf("expected root kind error, got %v", errs)
	}
	if !hasMessage(errs, "root reference") {
		t.Errorf("expected missing root error, got %v", errs)
	}
}

func TestValidateOrphanWarning(t *testing.T) {
	s := simpleScene()
	s.AddNode(makePolygon("unused", geom.V(0, 0), geom.V(1, 0), geom.V(0, 1)))

	res := ValidateAll(s)
	if !res.OK() {
		t.Fatalf("orphans should not block: %v", res.Errors)
	}
	if !hasWarning(res.Warnings, `"unused" is not used`) {
		t.Errorf("expected orphan warning, got %v", res.Warnings)
	}
}

func TestValidateClipAllOperands(t *testing.T) {
	s := simpleScene()
	first := s.MustLookup("result")
	all := &Node{
		ID:       NewNodeID("clip-all/everything"),
		Kind:     NodeClipAll,
		Name:     "everything",
		Children: []NodeID{s.MustLookup("window").ID, first.ID},
		Data:     ClipAllData{Region: s.MustLookup("window").ID, Subjects: []NodeID{first.ID}},
	}
	s.AddNode(all)
	s.AddRoot(all.ID)

	if res := ValidateAll(s); !res.OK() {
		t.Fatalf("clip-all over a clip result should be valid: %v", res.Errors)
	}

	// A clip-all cannot itself be a region.
	bad := makeClip("bad", s.MustLookup("subject").ID, all.ID)
	s.AddNode(bad)
	s.AddRoot(bad.ID)
	if errs := Validate(s); !hasMessage(errs, "has no single polygon") {
		t.Errorf("expected operand kind error, got %v", errs)
	}
}

func TestValidateSelfClipWarns(t *testing.T) {
	s := New()
	p := makePolygon("tri", geom.V(0, 0), geom.V(1, 0), geom.V(0, 1))
	c := makeClip("self", p.ID, p.ID)
	s.AddNode(p)
	s.AddNode(c)
	s.AddRoot(c.ID)

	res := ValidateAll(s)
	if !res.OK() {
		t.Fatalf("self clip should only warn: %v", res.Errors)
	}
	if !hasWarning(res.Warnings, "same node as subject and region") {
		t.Errorf("expected self clip warning, got %v", res.Warnings)
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Message: "boom", Severity: SeverityError}
	if got := e.Error(); got != "[error] boom" {
		t.Errorf("Error() = %q", got)
	}
	id := NewNodeID("box/x")
	e = ValidationError{NodeID: id, Message: "boom", Severity: SeverityWarning}
	if got := e.Error(); got != "[warning] node "+id.Short()+": boom" {
		t.Errorf("Error() = %q", got)
	}
	if got := ValidationSeverity(5).String(); got != "ValidationSeverity(5)" {
		t.Errorf("String() = %q", got)
	}
}
