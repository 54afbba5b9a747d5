package repositories

import "errors"

// ErrNotFound is wrapped by every lookup that finds no record.
var ErrNotFound = errors.New("not found")
