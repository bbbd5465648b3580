package policy

import (
	"strconv"
	"strings"

	"vibrowser/internal/urlorigin"
)

// sourceKind is the CSP source AST: parse each source once, then match
// the URL against it.
type sourceKind int

const (
	kindInvalid sourceKind = iota
	kindNone
	kindSelf
	kindSchemeOnly
	kindWildcardAny
	kindHost
)

type cspSource struct {
	kind              sourceKind
	scheme            string // kindSchemeOnly, kindHost (may be unset for kindHost)
	hasScheme         bool
	host              string
	wildcardSubdomain bool
	hasPort           bool
	port              string // "*" or numeric digits
	path              string
}

// anySourceMatches reports whether url matches at least one source in the
// list, honoring 'none' poisoning the whole list.
func anySourceMatches(rawSources []string, u *urlorigin.URL, policyOrigin string) bool {
	for _, raw := range rawSources {
		if strings.TrimSpace(raw) == "'none'" {
			return false
		}
	}
	for _, raw := range rawSources {
		src := parseCSPSource(raw)
		if src.kind == kindInvalid {
			continue // fail closed for this source only
		}
		if sourceMatches(src, u, policyOrigin) {
			return true
		}
	}
	return false
}

func parseCSPSource(raw string) cspSource {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "'none'":
		return cspSource{kind: kindNone}
	case "'self'":
		return cspSource{kind: kindSelf}
	case "*":
		return cspSource{kind: kindWildcardAny}
	}

	if raw == "" {
		return cspSource{kind: kindInvalid}
	}

	// "<scheme>:" with no authority, e.g. "https:".
	if strings.HasSuffix(raw, ":") && !strings.Contains(raw, "/") {
		scheme := strings.TrimSuffix(raw, ":")
		if scheme == "" || !validSchemeName(scheme) {
			return cspSource{kind: kindInvalid}
		}
		return cspSource{kind: kindSchemeOnly, scheme: strings.ToLower(scheme)}
	}

	rest := raw
	hasScheme := false
	scheme := ""
	if idx := strings.Index(raw, "://"); idx >= 0 {
		scheme = strings.ToLower(raw[:idx])
		if !validSchemeName(scheme) {
			return cspSource{kind: kindInvalid}
		}
		rest = raw[idx+3:]
		hasScheme = true
	}

	hostport, path := rest, ""
	if slash := strings.IndexByte(rest, '/'); slash >= 0 {
		hostport = rest[:slash]
		path = rest[slash:]
	}
	if hostport == "" {
		return cspSource{kind: kindInvalid}
	}

	host := hostport
	hasPort := false
	port := ""
	if strings.HasPrefix(hostport, "[") {
		end := strings.IndexByte(hostport, ']')
		if end < 0 {
			return cspSource{kind: kindInvalid}
		}
		host = hostport[:end+1]
		trailer := hostport[end+1:]
		if trailer != "" {
			if !strings.HasPrefix(trailer, ":") {
				return cspSource{kind: kindInvalid}
			}
			port = trailer[1:]
			hasPort = true
		}
	} else if colon := strings.LastIndexByte(hostport, ':'); colon >= 0 {
		host = hostport[:colon]
		port = hostport[colon+1:]
		hasPort = true
	}
	if host == "" {
		return cspSource{kind: kindInvalid}
	}

	wildcard := false
	if strings.HasPrefix(host, "*.") {
		wildcard = true
		host = host[2:]
		if host == "" {
			return cspSource{kind: kindInvalid}
		}
	}

	if hasPort && port != "*" {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 || n > 65535 {
			return cspSource{kind: kindInvalid}
		}
	}

	return cspSource{
		kind:              kindHost,
		scheme:            scheme,
		hasScheme:         hasScheme,
		host:              strings.ToLower(host),
		wildcardSubdomain: wildcard,
		hasPort:           hasPort,
		port:              port,
		path:              path,
	}
}

func validSchemeName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		ok := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9' && i > 0) ||
			((c == '+' || c == '-' || c == '.') && i > 0)
		if !ok {
			return false
		}
	}
	return true
}

func sourceMatches(src cspSource, u *urlorigin.URL, policyOrigin string) bool {
	switch src.kind {
	case kindSelf:
		selfOrigin, ok := urlorigin.CanonicalOriginString(policyOrigin)
		if !ok {
			return false
		}
		urlOrigin, ok := urlorigin.CanonicalOrigin(u)
		return ok && urlOrigin == selfOrigin
	case kindSchemeOnly:
		return u.Scheme == src.scheme
	case kindWildcardAny:
		return !u.Opaque
	case kindHost:
		return hostSourceMatches(src, u, policyOrigin)
	default:
		return false
	}
}

func hostSourceMatches(src cspSource, u *urlorigin.URL, policyOrigin string) bool {
	scheme := src.scheme
	if !src.hasScheme {
		originCanon, ok := urlorigin.CanonicalOriginString(policyOrigin)
		if !ok {
			return false
		}
		idx := strings.Index(originCanon, "://")
		if idx < 0 {
			return false
		}
		scheme = originCanon[:idx]
	}
	if u.Scheme != scheme {
		return false
	}

	uHost := u.Host
	if u.IsIPv6 {
		uHost = "[" + uHost + "]"
	}
	if src.wildcardSubdomain {
		if uHost == src.host || !strings.HasSuffix(uHost, "."+src.host) {
			return false
		}
	} else if uHost != src.host {
		return false
	}

	defPort, _ := urlorigin.DefaultPortForScheme(scheme)
	urlPort := u.Port
	if urlPort == 0 {
		urlPort = defPort
	}
	if src.hasPort {
		if src.port != "*" {
			n, _ := strconv.Atoi(src.port)
			if n != urlPort {
				return false
			}
		}
	} else if urlPort != defPort {
		return false
	}

	if src.path == "" || src.path == "/" {
		return true
	}
	if strings.HasSuffix(src.path, "/") {
		return strings.HasPrefix(u.Path, src.path)
	}
	return u.Path == src.path
}
