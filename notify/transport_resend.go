// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"

	"github.com/resend/resend-go/v2"
)

// ResendTransport delivers mail through the Resend API.
type ResendTransport struct {
	client *resend.Client
}

func NewResendTransport(apiKey string) *ResendTransport {
	return &ResendTransport{client: resend.NewClient(apiKey)}
}

func (t *ResendTransport) Send(ctx context.Context, from, to string, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{to},
		Subject: msg.Subject,
		Text:    msg.Body,
	}
	if msg.InReplyTo != "" {
		params.Headers = map[string]string{"In-Reply-To": msg.InReplyTo}
	}

	// The API client does not classify failures, so every error is
	// treated as transient and left to the dispatcher's retry policy.
	_, err := t.client.Emails.SendWithContext(ctx, params)
	return err
}
