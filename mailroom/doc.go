// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package mailroom routes inbound email to automated replies.

# Routing

Route parses a raw message, checks the sender against a configured
allow-list, and dispatches a reply event carrying the original
Message-ID as correlation ID so the reply threads (In-Reply-To) and
deduplicates on redelivery:

	router := mailroom.NewRouter(cfg.ReplyAllowlist, dispatcher)
	outcome := router.Route(rawBytes)

# Fail-closed policy

Senders not on the allow-list receive no reply of any kind - silence,
not a bounce. Unparsable messages are dead-lettered: logged and
dropped. Route never returns an error; the Outcome value exists for
logging and tests.
*/
package mailroom
