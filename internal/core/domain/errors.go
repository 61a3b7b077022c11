package domain

import "errors"

var (
	// ErrBBoxParse marks a bounding-box literal that does not decode into
	// exactly four finite numbers. The request is aborted.
	ErrBBoxParse = errors.New("malformed bbox")

	// ErrBBoxInverted marks a bounding box whose min exceeds max on an axis.
	// Rejected up front rather than silently producing an empty tile.
	ErrBBoxInverted = errors.New("inverted bbox")

	// ErrNotFound marks a catalog or layer lookup that matched nothing.
	ErrNotFound = errors.New("not found")

	// ErrUnknownSRID marks a spatial reference with no registered projection.
	ErrUnknownSRID = errors.New("unsupported spatial reference")
)
