package escalation

import "errors"

var (
	ErrVersionConflict = errors.New("escalation was modified concurrently")
	ErrNotRecipient    = errors.New("only the escalation recipient may act on it")
	ErrAlreadyResolved = errors.New("escalation is already resolved")
)
