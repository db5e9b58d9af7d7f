package scene

import "fmt"

// validateGeometry runs the geometric checks. Returns errors (blocking)
// and warnings (advisory) separately.
func validateGeometry(s *Scene) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	errs = append(errs, validateBoxes(s)...)

	regionErrs, regionWarnings := validateRegions(s)
	errs = append(errs, regionErrs...)
	warnings = append(warnings, regionWarnings...)

	warnings = append(warnings, validateSubjects(s)...)

	return errs, warnings
}

// validateBoxes checks that every box encloses area.
func validateBoxes(s *Scene) []ValidationError {
	var errs []ValidationError

	for _, node := range s.Boxes() {
		bd, ok := node.Data.(BoxData)
		if !ok {
			continue
		}
		if err := bd.Box.Validate(); err != nil {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("box %q: %v", node.Label(), err),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// regionPolygons returns the polygon nodes used as a clip region, once
// each, in scene order.
func regionPolygons(s *Scene) []*Node {
	used := make(map[NodeID]bool)
	for _, id := range s.Order {
		switch d := s.Nodes[id].Data.(type) {
		case ClipData:
			used[d.Region] = true
		case ClipAllData:
			used[d.Region] = true
		}
	}

	var out []*Node
	for _, node := range s.Polygons() {
		if used[node.ID] {
			out = append(out, node)
		}
	}
	return out
}

// validateRegions checks that polygon regions are convex rings. A
// clockwise region is legal but keeps nothing, so it only warns.
func validateRegions(s *Scene) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	for _, node := range regionPolygons(s) {
		pd, ok := node.Data.(PolygonData)
		if !ok {
			continue
		}
		p := pd.Vertices

		if p.IsDegenerate() {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("clip region %q has %d vertices, need at least 3", node.Label(), len(p)),
				Severity: SeverityError,
			})
			continue
		}
		if !p.IsConvex() {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("clip region %q is not convex", node.Label()),
				Severity: SeverityError,
			})
			continue
		}
		if !p.IsCCW() {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("clip region %q winds clockwise; every clip against it is empty", node.Label()),
			})
		}
	}

	return errs, warnings
}

// validateSubjects warns about degenerate subject polygons.
func validateSubjects(s *Scene) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range s.Polygons() {
		pd, ok := node.Data.(PolygonData)
		if !ok {
			continue
		}
		if pd.Vertices.IsDegenerate() {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("polygon %q has %d vertices and encloses no area", node.Label(), len(pd.Vertices)),
			})
		}
	}

	return warnings
}
