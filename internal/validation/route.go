package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// MaxRouteLength bounds site routes and base URLs.
const MaxRouteLength = 2048

// ValidateRoute checks a site-relative route such as "/technology#fhe".
func ValidateRoute(route string) error {
	if route == "" {
		return fmt.Errorf("route cannot be empty")
	}
	if len(route) > MaxRouteLength {
		return fmt.Errorf("route too long (max %d characters)", MaxRouteLength)
	}
	if !strings.HasPrefix(route, "/") {
		return fmt.Errorf("route %q must start with /", route)
	}
	if strings.HasPrefix(route, "//") {
		return fmt.Errorf("route %q must not be protocol-relative", route)
	}
	if strings.ContainsAny(route, "<>\"'` ") {
		return fmt.Errorf("route %q contains invalid characters", route)
	}
	for _, r := range route {
		if r < 32 || r == 127 {
			return fmt.Errorf("route %q contains control characters", route)
		}
	}
	path := route
	if i := strings.IndexByte(path, '#'); i >= 0 {
		path = path[:i]
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("route %q contains directory traversal", route)
	}
	return nil
}

// ValidateBaseURL checks an absolute http(s) site URL and returns it without a
// trailing slash.
func ValidateBaseURL(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("base URL cannot be empty")
	}
	if len(input) > MaxRouteLength {
		return "", fmt.Errorf("base URL too long (max %d characters)", MaxRouteLength)
	}
	if strings.ContainsAny(input, "<>\"'`") {
		return "", fmt.Errorf("base URL contains invalid characters")
	}
	u, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("base URL must use http or https")
	}
	if u.Host == "" {
		return "", fmt.Errorf("base URL must have a hostname")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("base URL must not carry a query or fragment")
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// JoinURL joins a validated base URL and a route.
func JoinURL(baseURL, route string) string {
	return strings.TrimRight(baseURL, "/") + route
}
