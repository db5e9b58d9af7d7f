package main

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/chazu/hodgman/pkg/engine"
	"github.com/chazu/hodgman/pkg/geom"
)

func defaultOptions() *options {
	return &options{samples: 32, timeout: engine.EvalTimeout}
}

func readScript(t *testing.T, name string) string {
	t.Helper()
	source, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(source)
}

// TestE2EWorkedScenario exercises the full path: Lisp source -> engine ->
// scene -> validation -> pipeline.
func TestE2EWorkedScenario(t *testing.T) {
	app := NewApp(defaultOptions())
	result := app.Evaluate(readScript(t, "worked.hodgman"))

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	if len(result.Warnings) > 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
	if len(result.Outputs) != 1 {
		t.Fatalf("expected 1 output, got %d", len(result.Outputs))
	}

	want := "Polygon 2.5,2.5  2,2.5  1,2  2,1  2.5,1  "
	if got := result.Outputs[0].Polygon.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestE2EClipAllTiles(t *testing.T) {
	opts := defaultOptions()
	opts.verify = true
	result := NewApp(opts).Evaluate(readScript(t, "tiles.hodgman"))

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Outputs) != 3 {
		t.Fatalf("expected 3 outputs, got %d", len(result.Outputs))
	}

	areas := map[string]float64{}
	for _, o := range result.Outputs {
		areas[o.Name] = o.Polygon.Area()
		if o.Agreement == nil {
			t.Errorf("%s: verification was requested but no report attached", o.Name)
		} else if o.Agreement.Ratio() < 0.999 {
			t.Errorf("%s: agreement %f", o.Name, o.Agreement.Ratio())
		}
	}

	// The centre tile loses its four corner triangles; the left tile keeps
	// the triangle between x=-2 and x=-1.
	if a := areas["tiles/centre"]; a < 3.999 || a > 4.001 {
		t.Errorf("centre area = %f, want 4", a)
	}
	if a := areas["tiles/left"]; a < 0.999 || a > 1.001 {
		t.Errorf("left area = %f, want 1", a)
	}
	if a := areas["tiles/far"]; a != 0 {
		t.Errorf("far area = %f, want 0", a)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	result := NewApp(defaultOptions()).Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Outputs) != 0 {
		t.Errorf("expected 0 outputs for empty source, got %d", len(result.Outputs))
	}
}

func TestE2ESyntaxError(t *testing.T) {
	result := NewApp(defaultOptions()).Evaluate(`(polygon "p" (vertex 0 0)`)

	if len(result.Errors) == 0 {
		t.Fatal("expected errors for syntax error")
	}
	if len(result.Outputs) != 0 {
		t.Errorf("expected 0 outputs on error, got %d", len(result.Outputs))
	}
}

func TestE2EValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{
			name: "degenerate box",
			source: `(polygon "p" (vertex 0 0) (vertex 1 0) (vertex 0 1))
(clip "c" "p" (box "flat" :xmin 0 :ymin 0 :xmax 0 :ymax 1))`,
			wantMsg: "invalid clip region",
		},
		{
			name: "concave region",
			source: `(polygon "p" (vertex 0 0) (vertex 1 0) (vertex 0 1))
(clip "c" "p" (polygon "dart" (vertex 0 0) (vertex 2 1) (vertex 4 0) (vertex 2 4)))`,
			wantMsg: "not convex",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewApp(defaultOptions()).Evaluate(tt.source)
			if len(result.Errors) == 0 {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(result.Errors[0].Message, tt.wantMsg) {
				t.Errorf("error = %q, want containing %q", result.Errors[0].Message, tt.wantMsg)
			}
			if len(result.Outputs) != 0 {
				t.Errorf("expected no outputs, got %d", len(result.Outputs))
			}
		})
	}
}

func TestE2EClockwiseRegionWarns(t *testing.T) {
	result := NewApp(defaultOptions()).Evaluate(`
(polygon "p" (vertex 1 1) (vertex 2 1) (vertex 1 2))
(clip "c" "p" (polygon "cw" (vertex 0 4) (vertex 4 4) (vertex 4 0) (vertex 0 0)))
`)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0].Message, "clockwise") {
		t.Errorf("expected one clockwise warning, got %v", result.Warnings)
	}
	if len(result.Outputs) != 1 || !result.Outputs[0].Polygon.IsEmpty() {
		t.Errorf("clockwise region should clip everything away, got %v", result.Outputs)
	}
}

func TestE2ECommentsOnly(t *testing.T) {
	result := NewApp(defaultOptions()).Evaluate(";; nothing to see\n; here either\n")
	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestE2ERapidEvaluation(t *testing.T) {
	// Sequential calls on one App exercise the generation counter; zygomys
	// sandboxes are not created concurrently.
	app := NewApp(defaultOptions())

	sources := []string{
		readScript(t, "worked.hodgman"),
		`(+ 1 2)`,
		``,
		`(polygon "p"`,
		readScript(t, "tiles.hodgman"),
	}
	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked: %v", i, r)
				}
			}()
			_ = app.Evaluate(source)
		}()
	}

	// The App is still usable afterwards.
	result := app.Evaluate(readScript(t, "worked.hodgman"))
	if len(result.Outputs) != 1 {
		t.Fatalf("expected 1 output after rapid evaluation, got %d (errors %v)", len(result.Outputs), result.Errors)
	}
}

func TestNewAppOptions(t *testing.T) {
	opts := defaultOptions()
	opts.strict = true
	opts.verify = true
	opts.timeout = time.Second

	app := NewApp(opts)
	if app.kernel == nil {
		t.Error("verify should install a kernel")
	}
	if app.policy.String() != "fail" {
		t.Errorf("strict policy = %s, want fail", app.policy)
	}
	if app.engine.Timeout() != time.Second {
		t.Errorf("engine timeout = %s, want 1s", app.engine.Timeout())
	}
}

func TestParseVertices(t *testing.T) {
	p, err := parseVertices(" 1,2  2.5,-1 ")
	if err != nil {
		t.Fatalf("parseVertices: %v", err)
	}
	if !p.Equal(geom.Polygon{geom.V(1, 2), geom.V(2.5, -1)}, 0) {
		t.Errorf("got %v", p)
	}

	for _, bad := range []string{"1,2,3", "x,1", "1"} {
		if _, err := parseVertices(bad); err == nil {
			t.Errorf("parseVertices(%q) should fail", bad)
		}
	}
}

func TestParseBox(t *testing.T) {
	b, err := parseBox("0, 0, 2.5, 2.5")
	if err != nil {
		t.Fatalf("parseBox: %v", err)
	}
	if b != (geom.Box{XMax: 2.5, YMax: 2.5}) {
		t.Errorf("got %+v", b)
	}
	if _, err := parseBox("1,1,0,2"); err == nil {
		t.Error("inverted box should fail")
	}
	if _, err := parseBox("1,1,2"); err == nil {
		t.Error("three numbers should fail")
	}
}
