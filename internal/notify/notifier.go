package notify

import (
	"context"
	"fmt"

	"feedback_portal/internal/model"
)

// Notifier publishes short messages to whoever moderates the portal.
type Notifier interface {
	Publish(ctx context.Context, message string) error
}

// FeedbackMessage renders the announcement for a new feedback entry
func FeedbackMessage(f *model.Feedback) string {
	author := "anonymous"
	if f.UserID != nil {
		author = *f.UserID
	}
	return fmt.Sprintf("New feedback %s from %s (%s):\n%s", f.ID, f.Name, author, f.Text)
}
