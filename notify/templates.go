// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"bytes"
	"fmt"
	"text/template"
)

// Subject and body templates per event kind. Templates read from
// Event.Data; missing keys render as empty strings rather than failing
// a send.
var templates = map[Kind]struct {
	subject string
	body    string
}{
	KindNominationConfirmed: {
		subject: "Nomination received",
		body: `Hi {{index . "candidate_name"}},

We received your nomination for: {{index . "roles"}}.

You can update it any time while nominations remain open. Submitting
again replaces your previous nomination.

Regards,
The election team`,
	},
	KindBallotConfirmed: {
		subject: "Ballot received",
		body: `Your ballot has been recorded.

You can change your ballot any time until voting closes. Only your most
recent submission counts.

Regards,
The election team`,
	},
	KindReply: {
		subject: "Re: your email",
		body: `This is an automated reply. We received your email.

Regards,
The election team`,
	},
}

// compose renders the subject and body for an event. Fails only for
// kinds with no registered template, which is a programming error on the
// emitting side.
func compose(evt Event) (Message, error) {
	tmpl, ok := templates[evt.Kind]
	if !ok {
		return Message{}, fmt.Errorf("no template for event kind %q", evt.Kind)
	}

	t, err := template.New(string(evt.Kind)).Parse(tmpl.body)
	if err != nil {
		return Message{}, fmt.Errorf("failed to parse template for %q: %w", evt.Kind, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, evt.Data); err != nil {
		return Message{}, fmt.Errorf("failed to render template for %q: %w", evt.Kind, err)
	}

	return Message{
		Subject:   tmpl.subject,
		Body:      buf.String(),
		InReplyTo: evt.CorrelationID,
	}, nil
}
