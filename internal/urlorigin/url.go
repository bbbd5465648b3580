// Package urlorigin is the sole place in the engine that understands URL
// grammar and canonical-origin derivation. Every downstream origin
// comparison (cross-origin gate, CSP matching, CORS response gate) goes
// through ParseURL / CanonicalOrigin / HTTPOrigin so origin semantics never
// drift between call sites.
package urlorigin

import (
	"fmt"
	"strconv"
	"strings"
)

// URL is the parsed, canonicalized form of a request target.
type URL struct {
	Scheme   string // lowercase ASCII
	Opaque   bool   // true for schemes with no "//" authority (data:, javascript:)
	Host     string // lowercase; bracket-free even for IPv6 ("::1", not "[::1]")
	IsIPv6   bool
	Port     int // 0 means "not specified"
	Path     string
	Query    string
	Fragment string
	Raw      string // original input, for diagnostics
}

// ParseError reports why a raw string failed to parse as a URL.
type ParseError struct {
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse url %q: %s", e.Raw, e.Reason)
}

func fail(raw, reason string) error {
	return &ParseError{Raw: raw, Reason: reason}
}

const unreservedBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func hasControl(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] == 0x7f {
			return true
		}
	}
	return false
}

// ParseURL parses raw into a URL, applying a strict, fail-closed grammar.
// It never normalizes ambiguity away silently: any malformed input
// returns a *ParseError.
func ParseURL(raw string) (*URL, error) {
	if raw == "" {
		return nil, fail(raw, "empty url")
	}
	if hasControl(raw) {
		return nil, fail(raw, "control character in url")
	}
	if !isASCII(raw) {
		return nil, fail(raw, "non-ASCII byte in url")
	}

	colon := strings.IndexByte(raw, ':')
	if colon <= 0 {
		return nil, fail(raw, "missing scheme")
	}
	scheme := raw[:colon]
	if !validSchemeToken(scheme) {
		return nil, fail(raw, "invalid scheme token")
	}
	scheme = strings.ToLower(scheme)
	rest := raw[colon+1:]

	u := &URL{Scheme: scheme, Raw: raw}

	if !strings.HasPrefix(rest, "//") {
		// Opaque scheme: no authority to validate (data:, javascript:, mailto:).
		u.Opaque = true
		u.Path = rest
		return u, nil
	}

	rest = rest[2:]
	authEnd := len(rest)
	for i, c := range []byte(rest) {
		if c == '/' || c == '?' || c == '#' {
			authEnd = i
			break
		}
	}
	authority := rest[:authEnd]
	remainder := rest[authEnd:]

	if authority == "" && scheme == "file" {
		// file URLs carry no meaningful authority; the host stays empty.
	} else if err := parseAuthority(raw, authority, u); err != nil {
		return nil, err
	}

	path, query, fragment := splitPathQueryFragment(remainder)
	u.Path = normalizePath(path)
	u.Query = query
	u.Fragment = fragment
	return u, nil
}

func validSchemeToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		case (c == '+' || c == '-' || c == '.') && i > 0:
		default:
			return false
		}
	}
	return true
}

func parseAuthority(raw, authority string, u *URL) error {
	if authority == "" {
		return fail(raw, "empty authority")
	}
	if strings.ContainsRune(authority, '\\') {
		return fail(raw, "backslash in authority")
	}
	if strings.ContainsRune(authority, '%') {
		return fail(raw, "percent-escape in authority")
	}
	if strings.ContainsAny(authority, "@") {
		return fail(raw, "userinfo not permitted in authority")
	}

	var hostPart, portPart string
	hasPort := false

	if strings.HasPrefix(authority, "[") {
		end := strings.IndexByte(authority, ']')
		if end < 0 {
			return fail(raw, "unterminated ipv6 literal")
		}
		hostPart = authority[1:end]
		trailer := authority[end+1:]
		if trailer == "" {
			// no port
		} else if strings.HasPrefix(trailer, ":") {
			portPart = trailer[1:]
			hasPort = true
		} else {
			return fail(raw, "garbage after ipv6 literal")
		}
		if !validIPv6Literal(hostPart) {
			return fail(raw, "invalid ipv6 literal")
		}
		u.Host = strings.ToLower(hostPart)
		u.IsIPv6 = true
	} else {
		if idx := strings.IndexByte(authority, ':'); idx >= 0 {
			if strings.Contains(authority[idx+1:], ":") {
				return fail(raw, "unbracketed ipv6-like host")
			}
			hostPart = authority[:idx]
			portPart = authority[idx+1:]
			hasPort = true
		} else {
			hostPart = authority
		}
		host, err := validateHost(raw, hostPart)
		if err != nil {
			return err
		}
		u.Host = host
	}

	if hasPort {
		if portPart == "" {
			return fail(raw, "empty explicit port")
		}
		for i := 0; i < len(portPart); i++ {
			if portPart[i] < '0' || portPart[i] > '9' {
				return fail(raw, "non-numeric port")
			}
		}
		n, err := strconv.Atoi(portPart)
		if err != nil || n < 0 || n > 65535 {
			return fail(raw, "port out of range")
		}
		if n == 0 {
			return fail(raw, "port zero is invalid")
		}
		u.Port = n
	}
	return nil
}

func validIPv6Literal(s string) bool {
	if s == "" {
		return false
	}
	colons := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		case c == ':':
			colons++
		case c == '.':
			// permits embedded IPv4 tail
		default:
			return false
		}
	}
	return colons >= 2
}

// validateHost validates a non-bracketed host as IPv4, a legacy
// single-integer form (rejected), or a dotted label sequence.
func validateHost(raw, host string) (string, error) {
	if host == "" {
		return "", fail(raw, "empty host")
	}
	labels := strings.Split(host, ".")
	for _, l := range labels {
		if l == "" {
			return "", fail(raw, "empty label (consecutive or boundary dots)")
		}
	}

	allDigits := func(s string) bool {
		if s == "" {
			return false
		}
		for i := 0; i < len(s); i++ {
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
		return true
	}

	if len(labels) == 1 && allDigits(labels[0]) {
		return "", fail(raw, "legacy single-integer host")
	}

	if len(labels) == 4 {
		isIPv4 := true
		for _, l := range labels {
			if !allDigits(l) {
				isIPv4 = false
				break
			}
		}
		if isIPv4 {
			for _, l := range labels {
				if len(l) > 1 && l[0] == '0' {
					return "", fail(raw, "leading zero in ipv4 octet")
				}
				n, _ := strconv.Atoi(l)
				if n > 255 {
					return "", fail(raw, "ipv4 octet out of range")
				}
			}
			return host, nil
		}
	}

	for _, l := range labels {
		if len(l) > 63 {
			return "", fail(raw, "overlong dns label")
		}
		for i := 0; i < len(l); i++ {
			c := l[i]
			ok := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-'
			if !ok {
				return "", fail(raw, "invalid character in dns label")
			}
		}
	}
	return strings.ToLower(host), nil
}

func splitPathQueryFragment(s string) (path, query, fragment string) {
	if hashIdx := strings.IndexByte(s, '#'); hashIdx >= 0 {
		fragment = s[hashIdx+1:]
		s = s[:hashIdx]
	}
	if qIdx := strings.IndexByte(s, '?'); qIdx >= 0 {
		query = s[qIdx+1:]
		s = s[:qIdx]
	}
	path = s
	return
}

// normalizePath percent-decodes unreserved bytes, then resolves "." and
// ".." segments. Decoding happens first so "%2e%2e" is a traversal.
func normalizePath(path string) string {
	decoded := decodeUnreservedPercentEscapes(path)
	if decoded == "" {
		return ""
	}
	segments := strings.Split(decoded, "/")
	var out []string
	for i, seg := range segments {
		switch seg {
		case ".":
			// drop; if last, leaves a trailing slash marker below
			if i == len(segments)-1 {
				out = append(out, "")
			}
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
			if i == len(segments)-1 {
				out = append(out, "")
			}
		default:
			out = append(out, seg)
		}
	}
	return strings.Join(out, "/")
}

func decodeUnreservedPercentEscapes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			v := hexVal(s[i+1])*16 + hexVal(s[i+2])
			if strings.IndexByte(unreservedBytes, byte(v)) >= 0 {
				b.WriteByte(byte(v))
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}
