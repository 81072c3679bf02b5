package notify

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/resend/resend-go/v2"
)

const emailSubject = "New feedback on the portal"

// EmailNotifier mails every notification to a fixed moderator address through Resend.
type EmailNotifier struct {
	client *resend.Client
	from   string
	to     []string
}

func NewEmailNotifier(apiKey, from string, to []string) *EmailNotifier {
	return &EmailNotifier{
		client: resend.NewClient(apiKey),
		from:   from,
		to:     to,
	}
}

func (n *EmailNotifier) Publish(ctx context.Context, message string) error {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      n.to,
		Subject: emailSubject,
		Text:    message,
		Html:    "<p>" + strings.ReplaceAll(html.EscapeString(message), "\n", "<br>") + "</p>",
	}

	sent, err := n.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Printf("Notification email sent (ID: %s)", sent.Id)
	return nil
}

// New picks the email notifier when Resend is configured and falls back to the log.
func New(apiKey, from, to string) Notifier {
	if apiKey == "" || to == "" {
		log.Println("RESEND_API_KEY or NOTIFY_EMAIL not set, notifications go to the log")
		return NewLogNotifier()
	}
	return NewEmailNotifier(apiKey, from, []string{to})
}
