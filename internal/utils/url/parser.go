package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL performs comprehensive URL validation
func ValidateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: must be http or https, got %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}

	return nil
}

// IsAbsolute reports whether s already carries an http(s) scheme
func IsAbsolute(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// linkCleaner drops the tab and newline characters browsers ignore inside a URL
var linkCleaner = strings.NewReplacer("\t", "", "\n", "", "\r", "")

// Normalize turns a link found on base into an absolute URL.
// Surrounding whitespace and embedded tabs and newlines are removed first.
// If standard resolution fails the two strings are joined with a single slash;
// the result may not be navigable.
func Normalize(candidate, base string) string {
	candidate = linkCleaner.Replace(strings.TrimSpace(candidate))
	if IsAbsolute(candidate) {
		return candidate
	}

	resolved, err := Resolve(base, candidate)
	if err == nil {
		return resolved
	}

	if strings.HasPrefix(candidate, "/") {
		return base + candidate
	}
	return base + "/" + candidate
}

// Resolve resolves href against base the way a browser would.
// It fails when either side does not parse or base is not absolute.
func Resolve(base, href string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base: %w", err)
	}
	if !baseURL.IsAbs() || baseURL.Host == "" {
		return "", errors.New("base URL is not absolute")
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse href: %w", err)
	}

	return baseURL.ResolveReference(ref).String(), nil
}
