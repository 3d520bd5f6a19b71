package logging

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// Redacted replaces the value of sensitive attributes.
const Redacted = "***"

// sensitiveKeys are attribute keys whose values are always masked.
var sensitiveKeys = map[string]bool{
	"token":         true,
	"password":      true,
	"secret":        true,
	"authorization": true,
	"api_key":       true,
	"private_key":   true,
}

var bearerToken = regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`)

// redactAttr is a slog ReplaceAttr function that masks credentials: values
// of sensitive keys, bearer tokens, and passwords embedded in URLs.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, Redacted)
	}
	if a.Value.Kind() != slog.KindString {
		return a
	}
	if s := RedactString(a.Value.String()); s != a.Value.String() {
		return slog.String(a.Key, s)
	}
	return a
}

// RedactString masks bearer tokens and URL credentials in s.
func RedactString(s string) string {
	s = bearerToken.ReplaceAllString(s, "Bearer "+Redacted)

	if strings.Contains(s, "://") && strings.Contains(s, "@") {
		if u, err := url.Parse(s); err == nil && u.User != nil {
			if _, hasPassword := u.User.Password(); hasPassword {
				return u.Redacted()
			}
			u.User = url.User("redacted")
			return u.String()
		}
	}
	return s
}
