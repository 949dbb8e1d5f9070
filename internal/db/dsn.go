package db

import (
	"fmt"
	"regexp"
	"strings"
)

var kvPairRegex = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

// NormalizeDSN accepts either a URL style DSN (postgres://...) or a lib/pq
// key=value list. It trims quotes and whitespace and, if given key=value
// form, returns it cleaned with sslmode defaulted.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return s
	}
	// If it does not look like key=value pairs, return unchanged (driver will error)
	if !kvPairRegex.MatchString(s) {
		return s
	}
	fields := strings.Fields(s)
	cleaned := strings.Join(fields, " ")
	if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=disable"
	}
	return cleaned
}

// EnsureConnectTimeout applies the fixed dial timeout unless the DSN
// already carries one, in both DSN forms.
func EnsureConnectTimeout(dsn string, seconds int) string {
	if dsn == "" || strings.Contains(strings.ToLower(dsn), "connect_timeout=") {
		return dsn
	}
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + fmt.Sprintf("connect_timeout=%d", seconds)
	}
	return dsn + fmt.Sprintf(" connect_timeout=%d", seconds)
}

var passwordRegexps = []*regexp.Regexp{
	regexp.MustCompile(`(password=)([^\s]+)`),
	regexp.MustCompile(`(//[^:/@]+:)([^@]+)(@)`),
}

// MaskDSN hides the password for log output, in both DSN forms.
func MaskDSN(dsn string) string {
	masked := dsn
	masked = passwordRegexps[0].ReplaceAllString(masked, `${1}***`)
	masked = passwordRegexps[1].ReplaceAllString(masked, `${1}***${3}`)
	return masked
}
