package geom

import "github.com/pkg/errors"

// ErrInvalidRegion is returned for a clip region that encloses no area,
// such as a box with XMin >= XMax or YMin >= YMax.
var ErrInvalidRegion = errors.New("geom: invalid clip region")
