// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Fairly Cast API server.

Fairly Cast is an election service for a member society: a strictly
forward phase lifecycle (nominations, then voting, then results),
nomination and ballot stores keyed by voter ID, email confirmations with
retry and deduplication, and an inbound mail webhook with an allow-list.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=elections.db SESSION_SECRET=... go run main.go

Or with flags:

	go run main.go -p 3318 -d elections.db --session-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string
  - SESSION_SECRET (--session-secret): Secret for session token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - ADMIN_IDS (--admins): Comma separated admin voter IDs
  - ROLES (--roles): Contestable roles (defaults to the executive set)
  - MAIL_FROM (--mail-from): Outbound From address
  - RESEND_API_KEY: Enables real mail delivery; console logging otherwise
  - VOTER_EMAIL_DOMAIN: Domain for voter mailbox addresses
  - REPLY_ALLOWLIST (--reply-allowlist): Inbound sender:action pairs

A .env file in the working directory is loaded at startup.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - election: Phase state machine, nominations, ballots, eligibility
  - notify: Notification events, dispatcher worker, mail transports
  - mailroom: Inbound mail parsing and reply routing
  - handlers: HTTP request handlers per concern
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, token resolution
  - models: Request/response types and phase constants
  - auth: Session token mint and verification
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
