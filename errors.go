package cellspace

import "errors"

var (
	// ErrInvalidParameter reports a rejected shape parameter such as a
	// negative radius or a polygon with fewer than three vertices.
	ErrInvalidParameter = errors.New("cellspace: invalid parameter")

	// ErrInvalidAttachment reports a tree change that would break the
	// one-parent, no-cycle invariant.
	ErrInvalidAttachment = errors.New("cellspace: invalid attachment")

	// ErrStaleHandle reports a HitboxID or ObjectID that does not name a
	// live entry, usually because it was disposed.
	ErrStaleHandle = errors.New("cellspace: stale handle")

	// ErrNotOwned reports an object operation on a hitbox that belongs to a
	// different object or to none.
	ErrNotOwned = errors.New("cellspace: hitbox not owned by object")

	// ErrInvalidConfig reports a Config that failed validation.
	ErrInvalidConfig = errors.New("cellspace: invalid config")
)
