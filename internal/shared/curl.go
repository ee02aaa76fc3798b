// Importing backend credentials from a browser's "Copy as cURL" output.
package shared

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
)

var (
	curlHeaderRe = regexp.MustCompile(`(?:-H|--header)\s+(?:'([^']+)'|"([^"]+)")`)
	curlCookieRe = regexp.MustCompile(`(?:-b|--cookie)\s+(?:'([^']+)'|"([^"]+)")`)
	curlURLRe    = regexp.MustCompile(`curl\s+['"]?(https?://[^\s'"]+)`)
	anyURLRe     = regexp.MustCompile(`['"]?(https?://[^\s'"]+)`)
)

// CurlRequest is the part of a copied cURL command needed to talk to the backend as the browser did.
type CurlRequest struct {
	URL     string
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a file containing a cURL command and parses it.
func ParseCurlFile(path string) (*CurlRequest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}
	return ParseCurlCommand(content)
}

// ParseCurlCommand extracts the request URL, headers and cookie from a cURL command.
//
// Cookies given with -b win over a Cookie header. Header names are canonicalized.
func ParseCurlCommand(data []byte) (*CurlRequest, error) {
	cmd := strings.ReplaceAll(string(data), "\\\n", " ")

	req := &CurlRequest{Headers: make(map[string]string)}
	for _, m := range curlHeaderRe.FindAllStringSubmatch(cmd, -1) {
		key, value, ok := strings.Cut(firstGroup(m), ":")
		if !ok {
			continue
		}
		key = canonicalHeader(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if key == "Cookie" {
			req.Cookie = value
			continue
		}
		req.Headers[key] = value
	}

	if m := curlCookieRe.FindStringSubmatch(cmd); m != nil {
		req.Cookie = firstGroup(m)
	}
	if m := curlURLRe.FindStringSubmatch(cmd); m != nil {
		req.URL = m[1]
	} else if m := anyURLRe.FindStringSubmatch(curlHeaderRe.ReplaceAllString(cmd, "")); m != nil {
		req.URL = m[1]
	}

	if len(req.Headers) == 0 && req.Cookie == "" {
		return nil, fmt.Errorf("%w: no headers found in curl command", ErrInvalidInput)
	}
	return req, nil
}

// BearerToken returns the token of an "Authorization: Bearer" header, if any.
func (c *CurlRequest) BearerToken() string {
	scheme, token, ok := strings.Cut(c.Headers["Authorization"], " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Origin returns the scheme and host of the request URL, or "" when it has none.
func (c *CurlRequest) Origin() string {
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// ApplyTo copies the origin, bearer token and session cookie into cfg. Values the request lacks are kept.
func (c *CurlRequest) ApplyTo(cfg *BackendConfig) {
	if origin := c.Origin(); origin != "" {
		cfg.URL = origin
	}
	if token := c.BearerToken(); token != "" {
		cfg.Token = token
	}
	if c.Cookie != "" {
		cfg.SessionCookie = c.Cookie
	}
}

func firstGroup(m []string) string {
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

func canonicalHeader(key string) string {
	parts := strings.Split(strings.ToLower(key), "-")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "-")
}
