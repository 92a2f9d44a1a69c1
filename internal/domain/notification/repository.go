package notification

import "context"

type IntentRepository interface {
	// Save stores the intent. created is false when an intent with the same dedupe key exists.
	Save(ctx context.Context, i *Intent) (created bool, err error)
	ListByRecipient(ctx context.Context, recipientID uint, limit int) ([]*Intent, error)
}

// Publisher fans a stored intent out to the delivery service.
type Publisher interface {
	Publish(ctx context.Context, i *Intent) error
}
