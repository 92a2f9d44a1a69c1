package staff

import "errors"

var (
	ErrVersionConflict = errors.New("staff profile was modified concurrently")
	ErrInactive        = errors.New("staff member is deactivated")
)
