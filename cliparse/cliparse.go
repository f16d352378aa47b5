package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
)

// DefaultRoles is the executive role set contested in an election when
// ROLES is not configured.
var DefaultRoles = []string{
	"president",
	"secretary",
	"treasurer",
	"arc_delegate",
	"edi_officer",
	"grievance_officer",
}

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// Secret used to sign and verify session tokens
	SessionSecret string

	// Voter IDs granted admin capability
	AdminIDs []string

	// Executive roles that can be contested
	Roles []string

	// Outbound mail
	MailFrom string

	// Resend API key; the console transport is used when empty
	ResendAPIKey string

	// Domain appended to a voter ID to form their mailbox address
	VoterEmailDomain string

	// Inbound mail allow-list, comma separated "address:action" pairs
	ReplyAllowlist map[string]string
}

// ParseFlags validates flags and fills in environment fallbacks
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var adminIDs, roles, allowlist string

	fs := flag.NewFlagSet("fairly-cast", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session token secret (prefer env)")

	fs.StringVar(&adminIDs, "admins", "", "Comma separated admin voter IDs")
	fs.StringVar(&roles, "roles", "", "Comma separated contestable roles")
	fs.StringVar(&cfg.MailFrom, "mail-from", "", "Outbound mail From address")
	fs.StringVar(&allowlist, "reply-allowlist", "", "Comma separated address:action pairs")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}

	// Secrets - MUST be provided
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	if adminIDs == "" {
		adminIDs = os.Getenv("ADMIN_IDS")
	}
	cfg.AdminIDs = SplitAndTrim(adminIDs)

	if roles == "" {
		roles = os.Getenv("ROLES")
	}
	cfg.Roles = SplitAndTrim(roles)
	if cfg.Roles == nil {
		cfg.Roles = DefaultRoles
	}

	if cfg.MailFrom == "" {
		cfg.MailFrom = os.Getenv("MAIL_FROM")
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = "elections@example.org"
	}

	cfg.ResendAPIKey = os.Getenv("RESEND_API_KEY")

	cfg.VoterEmailDomain = os.Getenv("VOTER_EMAIL_DOMAIN")
	if cfg.VoterEmailDomain == "" {
		cfg.VoterEmailDomain = "example.org"
	}

	if allowlist == "" {
		allowlist = os.Getenv("REPLY_ALLOWLIST")
	}
	cfg.ReplyAllowlist = parseAllowlist(allowlist)

	return cfg, nil
}

// parseAllowlist turns "a@x.org:ack,b@x.org:admin" into a lookup map.
// Entries without an action default to "ack". Addresses are lowercased.
func parseAllowlist(s string) map[string]string {
	out := make(map[string]string)
	for _, pair := range SplitAndTrim(s) {
		addr, action, found := strings.Cut(pair, ":")
		addr = strings.ToLower(strings.TrimSpace(addr))
		if addr == "" {
			continue
		}
		if !found || strings.TrimSpace(action) == "" {
			action = "ack"
		}
		out[addr] = strings.TrimSpace(action)
	}
	return out
}

// SplitAndTrim takes a comma separated string and returns a slice of
// trimmed, non-empty components. Returns nil if s has no content.
func SplitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
