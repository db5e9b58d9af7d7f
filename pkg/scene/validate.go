package scene

import "fmt"

// ValidationSeverity indicates whether a validation finding blocks evaluation
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks evaluation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	NodeID  NodeID
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether no blocking errors were found.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs the structural checks on the scene and returns every
// finding, errors and warnings alike. It never mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(s)...)
	errs = append(errs, validateReferences(s)...)
	errs = append(errs, validateNames(s)...)
	errs = append(errs, validateRoots(s)...)
	errs = append(errs, validateOperands(s)...)
	return errs
}

// ValidateAll runs the structural and geometric checks and returns a
// ValidationResult with separated errors and warnings.
func ValidateAll(s *Scene) ValidationResult {
	structural := Validate(s)
	geomErrs, geomWarnings := validateGeometry(s)

	var result ValidationResult
	for _, e := range structural {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{
				NodeID:  e.NodeID,
				Message: e.Message,
			})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}

	result.Errors = append(result.Errors, geomErrs...)
	result.Warnings = append(result.Warnings, geomWarnings...)
	return result
}

// validateDAG checks for cycles using DFS with 3-color marking.
// White (0) = unvisited, gray (1) = in current DFS path, black (2) = fully explored.
func validateDAG(s *Scene) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID) bool // returns true if cycle found
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray

		node, ok := s.Nodes[id]
		if !ok {
			// Dangling reference; handled by validateReferences.
			color[id] = black
			return false
		}

		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}

		color[id] = black
		return false
	}

	for _, id := range s.Order {
		if color[id] == white {
			if visit(id) {
				// One cycle error is sufficient; stop early.
				break
			}
		}
	}

	return errs
}

// operands returns the ids a node's payload refers to.
func operands(n *Node) []NodeID {
	switch d := n.Data.(type) {
	case ClipData:
		return []NodeID{d.Subject, d.Region}
	case ClipAllData:
		return append([]NodeID{d.Region}, d.Subjects...)
	}
	return nil
}

// validateReferences checks that every NodeID referenced anywhere in the scene
// points to a node that actually exists.
func validateReferences(s *Scene) []ValidationError {
	var errs []ValidationError

	for _, id := range s.Order {
		node := s.Nodes[id]
		for _, childID := range node.Children {
			if _, ok := s.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
		for _, ref := range operands(node) {
			if ref.IsZero() {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("%s has an unset operand", node.Kind),
					Severity: SeverityError,
				})
				continue
			}
			if _, ok := s.Nodes[ref]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("%s operand %s does not exist", node.Kind, ref.Short()),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}

// validateNames checks that no two nodes share a name and that every
// NameIndex entry points to an existing node.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError

	for name, id := range s.NameIndex {
		if _, ok := s.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}

	nameToNodes := make(map[string][]NodeID)
	var names []string
	for _, id := range s.Order {
		node := s.Nodes[id]
		if node.Name == "" {
			continue
		}
		if _, seen := nameToNodes[node.Name]; !seen {
			names = append(names, node.Name)
		}
		nameToNodes[node.Name] = append(nameToNodes[node.Name], id)
	}
	for _, name := range names {
		if ids := nameToNodes[name]; len(ids) > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, len(ids)),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateRoots checks that every root exists and is a clip operation, and
// warns about nodes no output depends on.
func validateRoots(s *Scene) []ValidationError {
	var errs []ValidationError

	reachable := make(map[NodeID]bool)
	var queue []NodeID
	for _, rid := range s.Roots {
		node, ok := s.Nodes[rid]
		if !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
			continue
		}
		if node.Kind != NodeClip && node.Kind != NodeClipAll {
			errs = append(errs, ValidationError{
				NodeID:   rid,
				Message:  fmt.Sprintf("root %q is a %s, not a clip operation", node.Label(), node.Kind),
				Severity: SeverityError,
			})
		}
		if !reachable[rid] {
			reachable[rid] = true
			queue = append(queue, rid)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := s.Nodes[current]
		if node == nil {
			continue
		}
		for _, childID := range node.Children {
			if !reachable[childID] {
				reachable[childID] = true
				queue = append(queue, childID)
			}
		}
	}

	for _, id := range s.Order {
		if !reachable[id] {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("node %q is not used by any clip output", s.Nodes[id].Label()),
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}

// validateOperands checks that clip operands evaluate to a single polygon
// and that a clip does not use the same node as subject and region.
func validateOperands(s *Scene) []ValidationError {
	var errs []ValidationError

	for _, id := range s.Order {
		node := s.Nodes[id]
		switch d := node.Data.(type) {
		case ClipData:
			errs = append(errs, checkOperand(s, node, "subject", d.Subject)...)
			errs = append(errs, checkOperand(s, node, "region", d.Region)...)
			if !d.Subject.IsZero() && d.Subject == d.Region {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  "clip uses the same node as subject and region",
					Severity: SeverityWarning,
				})
			}
		case ClipAllData:
			errs = append(errs, checkOperand(s, node, "region", d.Region)...)
			for i, sub := range d.Subjects {
				errs = append(errs, checkOperand(s, node, fmt.Sprintf("subject %d", i), sub)...)
			}
		}
	}

	return errs
}

func checkOperand(s *Scene, node *Node, role string, ref NodeID) []ValidationError {
	operand, ok := s.Nodes[ref]
	if !ok {
		return nil // reported by validateReferences
	}
	if operand.Kind.IsGeometry() {
		return nil
	}
	return []ValidationError{{
		NodeID:   node.ID,
		Message:  fmt.Sprintf("%s %s is a %s, which has no single polygon", role, operand.Label(), operand.Kind),
		Severity: SeverityError,
	}}
}
