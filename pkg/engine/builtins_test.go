package engine

import (
	"strings"
	"testing"

	"github.com/chazu/hodgman/pkg/geom"
	"github.com/chazu/hodgman/pkg/scene"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(box "w" :xmin 0)`,
			expect: `(box "w" "__kw_xmin" 0)`,
		},
		{
			name:   "multiple keywords",
			input:  `(box :xmin 0 :ymax 2.5)`,
			expect: `(box "__kw_xmin" 0 "__kw_ymax" 2.5)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(clip-all "all" window)`,
			expect: `(clip_all "all" window)`,
		},
		{
			name:   "kebab-case inside string preserved",
			input:  `(polygon "left-wing")`,
			expect: `(polygon "left-wing")`,
		},
		{
			name:   "minus operator preserved",
			input:  `(vertex (- 10 5) -2)`,
			expect: `(vertex (- 10 5) -2)`,
		},
		{
			name:   "hyphen between letters joins one name",
			input:  `(vertex w-h 2)`,
			expect: `(vertex w_h 2)`,
		},
		{
			name:   "hyphen before a digit left alone",
			input:  `(vertex x-1 2)`,
			expect: `(vertex x-1 2)`,
		},
		{
			name:   "spaced minus left alone",
			input:  `(vertex (- x 1) 2)`,
			expect: `(vertex (- x 1) 2)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:min-x`,
			expect: `"__kw_min-x"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func mustEvaluate(t *testing.T, source string) *scene.Scene {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if s == nil {
		t.Fatal("expected non-nil scene")
	}
	return s
}

func evalError(t *testing.T, source string) EvalError {
	t.Helper()
	s, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil scene on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	return evalErrs[0]
}

const workedScript = `
;; The reference pentagon clipped by a 2.5 square.
(def subject
  (polygon "subject"
    (vertex 1 2) (vertex 2 1) (vertex 4 1) (vertex 4 2) (vertex 3 3)))
(def window (box "window" :xmin 0 :ymin 0 :xmax 2.5 :ymax 2.5))
(clip "result" subject window)
`

// ---------------------------------------------------------------------------
// Builtin tests
// ---------------------------------------------------------------------------

func TestWorkedScript(t *testing.T) {
	s := mustEvaluate(t, workedScript)

	if s.NodeCount() != 3 {
		t.Fatalf("expected 3 nodes, got %d", s.NodeCount())
	}

	subject := s.Lookup("subject")
	if subject == nil {
		t.Fatal("expected node named 'subject'")
	}
	if subject.Kind != scene.NodePolygon {
		t.Errorf("expected NodePolygon, got %s", subject.Kind)
	}
	pd, ok := subject.Data.(scene.PolygonData)
	if !ok {
		t.Fatalf("expected PolygonData, got %T", subject.Data)
	}
	want := geom.Polygon{geom.V(1, 2), geom.V(2, 1), geom.V(4, 1), geom.V(4, 2), geom.V(3, 3)}
	if !pd.Vertices.Equal(want, 0) {
		t.Errorf("vertices = %v, want %v", pd.Vertices, want)
	}

	window := s.Lookup("window")
	if window == nil || window.Kind != scene.NodeBox {
		t.Fatal("expected box named 'window'")
	}
	bd := window.Data.(scene.BoxData)
	if bd.Box != (geom.Box{XMin: 0, YMin: 0, XMax: 2.5, YMax: 2.5}) {
		t.Errorf("box = %+v", bd.Box)
	}

	outputs := s.Outputs()
	if len(outputs) != 1 || outputs[0].Name != "result" {
		t.Fatalf("expected one output named 'result', got %v", outputs)
	}
	cd, ok := outputs[0].Data.(scene.ClipData)
	if !ok {
		t.Fatalf("expected ClipData, got %T", outputs[0].Data)
	}
	if cd.Subject != subject.ID || cd.Region != window.ID {
		t.Error("clip operands do not reference subject and window")
	}

	if res := scene.ValidateAll(s); !res.OK() {
		t.Errorf("worked script should validate: %v", res.Errors)
	}
}

func TestPolygonFromList(t *testing.T) {
	s := mustEvaluate(t, `
(def pts (list (vertex 0 0) (vertex 1 0) (vertex 0 1)))
(polygon "tri" pts)
(polygon "quad" [(vertex 0 0) (vertex 1 0)] (vertex 1 1) (vertex 0 1))
`)
	for name, n := range map[string]int{"tri": 3, "quad": 4} {
		node := s.Lookup(name)
		if node == nil {
			t.Fatalf("expected node named %q", name)
		}
		if got := len(node.Data.(scene.PolygonData).Vertices); got != n {
			t.Errorf("%s has %d vertices, want %d", name, got, n)
		}
	}
}

func TestVariableReference(t *testing.T) {
	s := mustEvaluate(t, `
(def size 2.5)
(box "window" :xmin 0 :ymin 0 :xmax size :ymax (* size 2))
`)
	bd := s.MustLookup("window").Data.(scene.BoxData)
	if bd.Box.XMax != 2.5 || bd.Box.YMax != 5 {
		t.Errorf("box = %+v, want xmax=2.5 ymax=5", bd.Box)
	}
}

func TestShapeLookup(t *testing.T) {
	s := mustEvaluate(t, `
(polygon "tri" (vertex 0 0) (vertex 4 0) (vertex 0 4))
(box "window" :xmin 0 :ymin 0 :xmax 1 :ymax 1)
(clip "by-ref" (shape "tri") (shape "window"))
(clip "by-name" "tri" "window")
`)
	a := s.MustLookup("by-ref").Data.(scene.ClipData)
	b := s.MustLookup("by-name").Data.(scene.ClipData)
	if a != b {
		t.Errorf("shape references and names resolved differently: %+v vs %+v", a, b)
	}
	if len(s.Outputs()) != 2 {
		t.Errorf("expected 2 outputs, got %d", len(s.Outputs()))
	}
}

func TestAnonymousClipIsIntermediate(t *testing.T) {
	s := mustEvaluate(t, `
(def tri (polygon "tri" (vertex 0 0) (vertex 4 0) (vertex 0 4)))
(def inner (clip tri (box :xmin 0 :ymin 0 :xmax 3 :ymax 3)))
(clip "final" inner (box "small" :xmin 1 :ymin 0 :xmax 2 :ymax 2))
`)
	outputs := s.Outputs()
	if len(outputs) != 1 || outputs[0].Name != "final" {
		t.Fatalf("expected only 'final' as output, got %v", outputs)
	}
	cd := outputs[0].Data.(scene.ClipData)
	inner := s.Get(cd.Subject)
	if inner == nil || inner.Kind != scene.NodeClip || inner.Name != "" {
		t.Errorf("subject should be the anonymous clip, got %+v", inner)
	}
	if res := scene.ValidateAll(s); !res.OK() {
		t.Errorf("nested clips should validate: %v", res.Errors)
	}
}

func TestClipWithNamedOperandsOnly(t *testing.T) {
	// Two strings are the operands, not a name and one operand.
	s := mustEvaluate(t, `
(polygon "tri" (vertex 0 0) (vertex 4 0) (vertex 0 4))
(box "window" :xmin 0 :ymin 0 :xmax 1 :ymax 1)
(clip "tri" "window")
`)
	if len(s.Outputs()) != 0 {
		t.Errorf("an unnamed clip is not an output, got %d outputs", len(s.Outputs()))
	}
	clips := 0
	for _, id := range s.Order {
		n := s.Get(id)
		if n.Kind != scene.NodeClip {
			continue
		}
		clips++
		cd := n.Data.(scene.ClipData)
		if cd.Subject != s.MustLookup("tri").ID || cd.Region != s.MustLookup("window").ID {
			t.Errorf("operands = %+v", cd)
		}
	}
	if clips != 1 {
		t.Errorf("expected 1 clip node, got %d", clips)
	}
}

func TestClipAll(t *testing.T) {
	s := mustEvaluate(t, `
(polygon "a" (vertex 0 0) (vertex 1 0) (vertex 0 1))
(polygon "b" (vertex 5 5) (vertex 6 5) (vertex 5 6))
(def region (polygon "region" (vertex -1 -1) (vertex 2 -1) (vertex 2 2) (vertex -1 2)))
(clip-all "everything" region)
(polygon "late" (vertex 0 0) (vertex 1 0) (vertex 1 1))
`)
	all := s.MustLookup("everything")
	if all.Kind != scene.NodeClipAll {
		t.Fatalf("expected NodeClipAll, got %s", all.Kind)
	}
	d := all.Data.(scene.ClipAllData)
	if d.Region != s.MustLookup("region").ID {
		t.Error("region operand mismatch")
	}
	want := []scene.NodeID{s.MustLookup("a").ID, s.MustLookup("b").ID}
	if len(d.Subjects) != len(want) {
		t.Fatalf("subjects = %v, want %v", d.Subjects, want)
	}
	for i := range want {
		if d.Subjects[i] != want[i] {
			t.Errorf("subject %d = %s, want %s", i, d.Subjects[i], want[i])
		}
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{"vertex arity", `(vertex 1)`, "exactly 2 arguments"},
		{"vertex type", `(vertex 1 "two")`, "vertex: y: expected number"},
		{"polygon item", `(polygon "p" 3)`, "expected vertex or list"},
		{"polygon list item", `(polygon "p" (list (vertex 0 0) 7))`, "expected vertex"},
		{"duplicate name", `(polygon "p" (vertex 0 0)) (polygon "p" (vertex 1 1))`, `"p" is already defined`},
		{"empty name", `(polygon "" (vertex 0 0))`, "must not be empty"},
		{"box missing bound", `(box "w" :xmin 0 :ymin 0 :xmax 1)`, "missing :ymax"},
		{"box bad bound", `(box "w" :xmin "a" :ymin 0 :xmax 1 :ymax 1)`, "xmin: expected number"},
		{"clip arity", `(clip "c")`, "requires a subject and a region"},
		{"clip unknown name", `(box "w" :xmin 0 :ymin 0 :xmax 1 :ymax 1) (clip "c" "nope" "w")`, `no shape named "nope"`},
		{"clip bad operand", `(clip "c" 1 2)`, "expected shape reference"},
		{"clip-all arity", `(clip-all)`, "requires a region"},
		{"shape unknown", `(shape "ghost")`, `no shape named "ghost"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := evalError(t, tt.source)
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

func TestDegenerateBoxEvaluates(t *testing.T) {
	// Well-formedness is a validation concern, not an evaluation error.
	s := mustEvaluate(t, `
(polygon "p" (vertex 0 0) (vertex 1 0) (vertex 0 1))
(clip "c" "p" (box "flat" :xmin 0 :ymin 1 :xmax 5 :ymax 1))
`)
	res := scene.ValidateAll(s)
	if res.OK() {
		t.Fatal("expected validation to reject the flat box")
	}
	if !strings.Contains(res.Errors[0].Message, "invalid clip region") {
		t.Errorf("unexpected error: %v", res.Errors[0])
	}
}

func TestSexpString(t *testing.T) {
	v := &sexpVertex{v: geom.V(1.5, -2)}
	if got := v.SexpString(nil); got != "(vertex 1.5 -2)" {
		t.Errorf("vertex SexpString = %q", got)
	}
	ref := &sexpNodeRef{id: scene.NewNodeID("box/w"), name: "w"}
	if got := ref.SexpString(nil); got != `(shape "w")` {
		t.Errorf("named ref SexpString = %q", got)
	}
	anon := &sexpNodeRef{id: scene.NewNodeID("box/_anon_1")}
	if got := anon.SexpString(nil); !strings.HasPrefix(got, "(shape ") {
		t.Errorf("anonymous ref SexpString = %q", got)
	}
}
