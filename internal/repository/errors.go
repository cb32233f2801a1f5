package repository

import "errors"

// ErrNotFound is returned by every store backend when a lookup matches no row.
var ErrNotFound = errors.New("not found")
