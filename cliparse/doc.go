// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - SessionSecret: Secret for session token HMAC (required)
  - AdminIDs: Voter IDs with admin capability
  - Roles: Contestable executive roles (defaults to the society's six)
  - MailFrom: From address for outbound notifications
  - ResendAPIKey: Enables the Resend transport when set (env only)
  - VoterEmailDomain: Domain forming a voter's mailbox address (env only)
  - ReplyAllowlist: Inbound sender address -> reply action

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	--session-secret  Session token secret
	--admins          Comma separated admin voter IDs
	--roles           Comma separated role names
	--mail-from       Outbound From address
	--reply-allowlist Comma separated address:action pairs

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	SESSION_SECRET  → --session-secret
	ADMIN_IDS       → --admins
	ROLES           → --roles
	MAIL_FROM       → --mail-from
	REPLY_ALLOWLIST → --reply-allowlist

RESEND_API_KEY and VOTER_EMAIL_DOMAIN are environment-only.

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - SESSION_SECRET must be provided
*/
package cliparse
