package audit

import "context"

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	ListBySubject(ctx context.Context, subjectType string, subjectID uint) ([]*Entry, error)
}
