// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package net

import (
	"fmt"
	"net/url"
	"strings"
)

// SanitizeURL removes user info and query parameters for safe logging.
func SanitizeURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url-redacted"
	}
	parsedURL.User = nil
	parsedURL.RawQuery = ""
	return parsedURL.String()
}

// ParseServiceURL validates a reservation service base URL.
// It enforces:
//   - Scheme must be "http" or "https"
//   - Host must be non-empty and valid (IDN hosts are converted to ASCII)
//   - No embedded User/Password credentials
//   - No query or fragment
//
// The returned URL has a lower-case scheme and host and no trailing slash.
func ParseServiceURL(s string) (*url.URL, error) {
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("host is empty")
	}
	if u.User != nil {
		return nil, fmt.Errorf("credentials must not be embedded in the url")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return nil, fmt.Errorf("query and fragment are not allowed")
	}

	host, err := NormalizeHost(u.Hostname())
	if err != nil {
		return nil, err
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port := u.Port(); port != "" {
		host += ":" + port
	}

	u.Scheme = scheme
	u.Host = host
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	return u, nil
}
