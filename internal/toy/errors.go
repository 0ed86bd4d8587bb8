package toy

import "errors"

var (
	ErrInvalidID   = errors.New("invalid toy id")
	ErrNotFound    = errors.New("toy not found")
	ErrDuplicateID = errors.New("toy id already exists")
)
