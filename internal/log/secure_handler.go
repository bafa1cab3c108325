package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

// MaskValue replaces every redacted value.
const MaskValue = "***REDACTED***"

// defaultKeys are attribute and query parameter names that always hold secrets.
var defaultKeys = []string{
	"authorization", "proxy-authorization", "cookie", "set-cookie",
	"x-api-key", "x-auth-token", "api_key", "apikey", "api-key",
	"session", "session_id", "sessionid", "sid",
}

// defaultKeywords mark a name as secret when contained in it.
// "key" alone is not listed: fact keys such as "a_locations" are logged often.
var defaultKeywords = []string{
	"password", "passwd", "secret", "token", "auth", "credential", "private",
}

// secretValues match values that are secrets whatever their key.
var secretValues = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`), // JWT
	regexp.MustCompile(`(?i)^(bearer|basic)\s+\S+`),
	regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`),
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
	regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`),
}

// digestPattern matches lower-case hex digests such as fact fingerprints,
// which would otherwise look like API keys.
var digestPattern = regexp.MustCompile(`^[0-9a-f]{32,}$`)

// Redactor decides which log values are secrets.
// The zero value redacts nothing; use NewRedactor.
type Redactor struct {
	keys     map[string]struct{}
	keywords []string
}

// NewRedactor returns a Redactor for the built-in secret names plus extra.
// Names are compared case-insensitively.
func NewRedactor(extra ...string) *Redactor {
	r := &Redactor{
		keys:     make(map[string]struct{}, len(defaultKeys)+len(extra)),
		keywords: slices.Clone(defaultKeywords),
	}
	for _, k := range slices.Concat(defaultKeys, extra) {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			r.keys[k] = struct{}{}
		}
	}
	return r
}

// SecretKey reports whether values stored under name must be masked.
func (r *Redactor) SecretKey(name string) bool {
	name = strings.ToLower(name)
	if _, ok := r.keys[name]; ok {
		return true
	}
	for _, kw := range r.keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// SecretValue reports whether a value looks like a credential.
func (r *Redactor) SecretValue(value string) bool {
	if digestPattern.MatchString(value) {
		return false
	}
	for _, p := range secretValues {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}

// RedactURL strips user info from a URL and masks secret query parameters.
// The second result is false when value is not a URL or nothing changed.
func (r *Redactor) RedactURL(value string) (string, bool) {
	if !strings.Contains(value, "://") {
		return "", false
	}
	u, err := url.Parse(value)
	if err != nil || u.Host == "" {
		return "", false
	}

	changed := u.User != nil
	u.User = nil

	if u.RawQuery != "" {
		params := strings.Split(u.RawQuery, "&")
		for i, param := range params {
			name, _, _ := strings.Cut(param, "=")
			if unescaped, err := url.QueryUnescape(name); err == nil {
				name = unescaped
			}
			if r.SecretKey(name) {
				params[i] = url.QueryEscape(name) + "=" + MaskValue
				changed = true
			}
		}
		u.RawQuery = strings.Join(params, "&")
	}

	if !changed {
		return "", false
	}
	return u.String(), true
}

// Attr returns a with secrets masked. Groups are redacted recursively.
func (r *Redactor) Attr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch {
	case a.Value.Kind() == slog.KindGroup:
		members := a.Value.Group()
		redacted := make([]slog.Attr, len(members))
		for i, m := range members {
			redacted[i] = r.Attr(m)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	case r.SecretKey(a.Key):
		return slog.String(a.Key, MaskValue)
	case a.Value.Kind() != slog.KindString:
		return a
	}

	value := a.Value.String()
	if r.SecretValue(value) {
		return slog.String(a.Key, MaskValue)
	}
	if masked, ok := r.RedactURL(value); ok {
		return slog.String(a.Key, masked)
	}
	return a
}

// SecureHandler is an slog.Handler that redacts every attribute before
// passing the record to the wrapped handler.
type SecureHandler struct {
	handler  slog.Handler
	redactor *Redactor
}

// NewSecureHandler wraps handler, or the default handler when nil.
// A nil redactor means NewRedactor().
func NewSecureHandler(handler slog.Handler, redactor *Redactor) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if redactor == nil {
		redactor = NewRedactor()
	}
	return &SecureHandler{handler: handler, redactor: redactor}
}

// Enabled implements slog.Handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *SecureHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	rec.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redactor.Attr(a))
		return true
	})
	return h.handler.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactor.Attr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(redacted), redactor: h.redactor}
}

// WithGroup implements slog.Handler.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name), redactor: h.redactor}
}

// Options configure the loggers built by New.
type Options struct {
	// Verbose lowers the level from Warn to Debug.
	Verbose bool
	// JSON selects slog.JSONHandler instead of slog.TextHandler.
	JSON bool
	// RedactKeys are masked in addition to the built-in secret names.
	RedactKeys []string
}

// New returns a logger writing to w that never emits secrets.
func New(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var base slog.Handler = slog.NewTextHandler(w, handlerOpts)
	if opts.JSON {
		base = slog.NewJSONHandler(w, handlerOpts)
	}
	return slog.New(NewSecureHandler(base, NewRedactor(opts.RedactKeys...)))
}

// NewSecureLogger returns a text logger at Debug level when verbose, Warn otherwise.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return New(w, Options{Verbose: verbose})
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
