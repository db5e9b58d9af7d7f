package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/hodgman/pkg/geom"
	"github.com/chazu/hodgman/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites scene script source before passing it to
// zygomys. It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: clip-all -> clip_all
//     zygomys reads a hyphen as the subtraction operator, so kebab-case
//     identifiers are converted to underscore form outside of strings
//     and comments. Any hyphen between an identifier character and a
//     letter is rewritten, so w-h names the symbol w_h. There is no
//     infix arithmetic: subtraction is always (- w h).
//
//  3. Line comments: ; and ;; become //, the zygomys comment syntax.
//
// All transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// A hyphen between identifier characters is part of a name, not a
		// minus sign.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVertex wraps a geom.Vertex so it can be returned from `vertex` and
// consumed by `polygon`.
type sexpVertex struct {
	v geom.Vertex
}

func (v *sexpVertex) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vertex %g %g)", v.v.X, v.v.Y)
}
func (v *sexpVertex) Type() *zygo.RegisteredType { return nil }

// sexpNodeRef wraps a scene.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   scene.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(shape %q)", n.name)
	}
	return fmt.Sprintf("(shape %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Trailing keyword with no value.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toVertices flattens vertex arguments. Each argument is a vertex or a
// list/array of vertices.
func toVertices(args []zygo.Sexp) (geom.Polygon, error) {
	var out geom.Polygon
	for i, arg := range args {
		if v, ok := arg.(*sexpVertex); ok {
			out = append(out, v.v)
			continue
		}
		items, err := sexpListToSlice(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: expected vertex or list of vertices, got %T (%s)",
				i, arg, arg.SexpString(nil))
		}
		for j, item := range items {
			v, ok := item.(*sexpVertex)
			if !ok {
				return nil, fmt.Errorf("argument %d item %d: expected vertex, got %T (%s)",
					i, j, item, item.SexpString(nil))
			}
			out = append(out, v.v)
		}
	}
	return out, nil
}

// toOperand resolves a clip operand: a node reference, or the name of a
// node already defined in s.
func toOperand(s *scene.Scene, arg zygo.Sexp) (scene.NodeID, error) {
	switch v := arg.(type) {
	case *sexpNodeRef:
		return v.id, nil
	case *zygo.SexpStr:
		n := s.Lookup(v.S)
		if n == nil {
			return scene.ZeroID, fmt.Errorf("no shape named %q", v.S)
		}
		return n.ID, nil
	}
	return scene.ZeroID, fmt.Errorf("expected shape reference or name, got %T (%s)", arg, arg.SexpString(nil))
}

// nodeName splits an optional leading string name off args. Unnamed nodes
// get an empty name and an anonymous id path.
func nodeName(s *scene.Scene, kind string, args []zygo.Sexp) (name, idPath string, rest []zygo.Sexp, err error) {
	return operandName(s, kind, args, 0)
}

// operandName is nodeName for builtins taking n operands that may
// themselves be names: a leading string is a name only when more than n
// arguments are given.
func operandName(s *scene.Scene, kind string, args []zygo.Sexp, n int) (name, idPath string, rest []zygo.Sexp, err error) {
	if len(args) > n {
		if str, ok := args[0].(*zygo.SexpStr); ok && !strings.HasPrefix(str.S, kwPrefix) {
			if str.S == "" {
				return "", "", nil, fmt.Errorf("name must not be empty")
			}
			if s.Lookup(str.S) != nil {
				return "", "", nil, fmt.Errorf("%q is already defined", str.S)
			}
			return str.S, kind + "/" + str.S, args[1:], nil
		}
	}
	return "", s.NextAnon(kind), args, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene DSL builtins into a zygomys
// environment. The builtins populate s during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene) {

	// -----------------------------------------------------------------------
	// (vertex 1 2)
	// -----------------------------------------------------------------------
	env.AddFunction("vertex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vertex requires exactly 2 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vertex: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vertex: y: %w", err)
		}

		return &sexpVertex{v: geom.V(x, y)}, nil
	})

	// -----------------------------------------------------------------------
	// (polygon "name" (vertex 1 2) (vertex 2 1) ...)
	// (polygon "name" (list (vertex 1 2) ...))
	// -----------------------------------------------------------------------
	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		polyName, idPath, rest, err := nodeName(s, "polygon", args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: name: %w", err)
		}

		vertices, err := toVertices(rest)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
		}

		id := scene.NewNodeID(idPath)
		s.AddNode(&scene.Node{
			ID:   id,
			Kind: scene.NodePolygon,
			Name: polyName,
			Data: scene.PolygonData{Vertices: vertices},
		})

		return &sexpNodeRef{id: id, name: polyName}, nil
	})

	// -----------------------------------------------------------------------
	// (box "name" :xmin 0 :ymin 0 :xmax 2.5 :ymax 2.5)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		boxName, idPath, rest, err := nodeName(s, "box", args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: name: %w", err)
		}

		pa := parseArgs(rest)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("box: unexpected positional argument %s", pa.positional[0].SexpString(nil))
		}

		var b geom.Box
		bounds := []struct {
			key string
			dst *float64
		}{
			{"xmin", &b.XMin},
			{"ymin", &b.YMin},
			{"xmax", &b.XMax},
			{"ymax", &b.YMax},
		}
		for _, bound := range bounds {
			v, ok := pa.kw[bound.key]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("box: missing :%s", bound.key)
			}
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: %s: %w", bound.key, err)
			}
			*bound.dst = f
		}

		id := scene.NewNodeID(idPath)
		s.AddNode(&scene.Node{
			ID:   id,
			Kind: scene.NodeBox,
			Name: boxName,
			Data: scene.BoxData{Box: b},
		})

		return &sexpNodeRef{id: id, name: boxName}, nil
	})

	// -----------------------------------------------------------------------
	// (clip "name" subject region)
	//
	// Named clips are scene outputs; unnamed clips are intermediate values.
	// -----------------------------------------------------------------------
	env.AddFunction("clip", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		clipName, idPath, rest, err := operandName(s, "clip", args, 2)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clip: name: %w", err)
		}
		if len(rest) != 2 {
			return zygo.SexpNull, fmt.Errorf("clip requires a subject and a region, got %d arguments", len(rest))
		}

		subject, err := toOperand(s, rest[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clip: subject: %w", err)
		}
		region, err := toOperand(s, rest[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clip: region: %w", err)
		}

		id := scene.NewNodeID(idPath)
		s.AddNode(&scene.Node{
			ID:       id,
			Kind:     scene.NodeClip,
			Name:     clipName,
			Children: []scene.NodeID{subject, region},
			Data:     scene.ClipData{Subject: subject, Region: region},
		})
		if clipName != "" {
			s.AddRoot(id)
		}

		return &sexpNodeRef{id: id, name: clipName}, nil
	})

	// -----------------------------------------------------------------------
	// (clip-all "name" region)
	//
	// Clips every polygon defined so far, except the region itself.
	// Registered as "clip_all"; the preprocessor rewrites clip-all.
	// -----------------------------------------------------------------------
	env.AddFunction("clip_all", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		allName, idPath, rest, err := operandName(s, "clip-all", args, 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clip-all: name: %w", err)
		}
		if len(rest) != 1 {
			return zygo.SexpNull, fmt.Errorf("clip-all requires a region, got %d arguments", len(rest))
		}

		region, err := toOperand(s, rest[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clip-all: region: %w", err)
		}

		var subjects []scene.NodeID
		for _, p := range s.Polygons() {
			if p.ID != region {
				subjects = append(subjects, p.ID)
			}
		}

		id := scene.NewNodeID(idPath)
		s.AddNode(&scene.Node{
			ID:       id,
			Kind:     scene.NodeClipAll,
			Name:     allName,
			Children: append([]scene.NodeID{region}, subjects...),
			Data:     scene.ClipAllData{Region: region, Subjects: subjects},
		})
		s.AddRoot(id)

		return &sexpNodeRef{id: id, name: allName}, nil
	})

	// -----------------------------------------------------------------------
	// (shape "name")
	// -----------------------------------------------------------------------
	env.AddFunction("shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("shape requires a name argument")
		}

		shapeName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: name: %w", err)
		}

		n := s.Lookup(shapeName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("shape: no shape named %q", shapeName)
		}

		return &sexpNodeRef{id: n.ID, name: shapeName}, nil
	})
}
