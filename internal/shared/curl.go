// Utilities for parsing cURL commands copied from browser DevTools.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// CurlHeaders holds the headers and cookie pulled out of a cURL command.
type CurlHeaders struct {
	Headers map[string]string
	Cookie  string
}

var (
	headerFlagRe = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	cookieFlagRe = regexp.MustCompile(`-b\s+'([^']+)'|-b\s+"([^"]+)"`)
)

// ParseCurlFile reads a file holding a cURL command and extracts its headers.
func ParseCurlFile(path string) (*CurlHeaders, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(content)
}

// ParseCurlCommand extracts -H headers and the cookie (-b flag or cookie
// header) from a "Copy as cURL" command.
func ParseCurlCommand(data []byte) (*CurlHeaders, error) {
	// Fold shell line continuations into one line before matching flags.
	cmd := strings.ReplaceAll(string(data), "\\\n", " ")
	cmd = strings.ReplaceAll(cmd, "\\", "")

	parsed := &CurlHeaders{Headers: make(map[string]string)}

	for _, match := range headerFlagRe.FindAllStringSubmatch(cmd, -1) {
		name, value, ok := strings.Cut(quoted(match), ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)

		// Cookies ride in their own field, not the header map.
		if strings.EqualFold(name, "cookie") {
			if parsed.Cookie == "" {
				parsed.Cookie = value
			}
			continue
		}
		parsed.Headers[name] = value
	}

	// An explicit -b flag wins over a cookie header.
	if match := cookieFlagRe.FindStringSubmatch(cmd); match != nil {
		parsed.Cookie = quoted(match)
	}

	if len(parsed.Headers) == 0 && parsed.Cookie == "" {
		return nil, fmt.Errorf("no headers found in curl command")
	}

	return parsed, nil
}

// quoted returns whichever capture group matched, single or double quoted.
func quoted(match []string) string {
	if match[1] != "" {
		return match[1]
	}
	return match[2]
}

// BearerToken extracts the bearer token from the Authorization header, if present.
//
// Used by `shelf auth import` to lift a session out of a browser request.
func (c *CurlHeaders) BearerToken() (string, error) {
	for key, value := range c.Headers {
		if !strings.EqualFold(key, "authorization") {
			continue
		}

		token := strings.TrimSpace(value)
		if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
			token = strings.TrimSpace(token[7:])
		}
		if token == "" {
			break
		}
		return token, nil
	}

	return "", fmt.Errorf("no bearer token found in curl command")
}
