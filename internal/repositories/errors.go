package repositories

import "errors"

// ErrNotFound is wrapped by every repository lookup that misses, so callers
// can test with errors.Is and map it to a 404 at the HTTP surface.
var ErrNotFound = errors.New("record not found")
