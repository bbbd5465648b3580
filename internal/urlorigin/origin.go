package urlorigin

import "fmt"

// NullOrigin is the sentinel value for an opaque/unspecified origin. Like
// any other canonical origin string it compares by byte equality, so two
// "null" origins are same-origin with each other but with nothing else.
const NullOrigin = "null"

var defaultPorts = map[string]int{
	"http":  80,
	"https": 443,
	"ws":    80,
	"wss":   443,
}

// DefaultPortForScheme returns scheme's default port, if the scheme has one.
func DefaultPortForScheme(scheme string) (int, bool) {
	p, ok := defaultPorts[scheme]
	return p, ok
}

// CanonicalOrigin serializes u's origin as scheme://host[:port], omitting
// the port iff it is the scheme's default. Returns ("", false) for opaque
// schemes (data:, javascript:, ...), which have no origin.
func CanonicalOrigin(u *URL) (string, bool) {
	if u == nil || u.Opaque || u.Host == "" {
		return "", false
	}
	host := u.Host
	if u.IsIPv6 {
		host = "[" + host + "]"
	}
	if def, ok := defaultPorts[u.Scheme]; !ok || u.Port != def {
		if u.Port != 0 {
			return fmt.Sprintf("%s://%s:%d", u.Scheme, host, u.Port), true
		}
	}
	return fmt.Sprintf("%s://%s", u.Scheme, host), true
}

// CanonicalOriginString parses raw as a URL and returns its canonical
// origin, ignoring any path/query/fragment component. "null" is returned
// verbatim as the sentinel origin. Fails closed (false) on parse error.
func CanonicalOriginString(raw string) (string, bool) {
	if raw == NullOrigin {
		return NullOrigin, true
	}
	u, err := ParseURL(raw)
	if err != nil {
		return "", false
	}
	return CanonicalOrigin(u)
}

// HTTPOrigin canonicalizes raw for CORS/Origin-header purposes: only
// http/https schemes qualify, and the origin must carry no path, query,
// fragment, or userinfo (ParseURL already rejects userinfo).
func HTTPOrigin(raw string) (string, bool) {
	u, err := ParseURL(raw)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Path != "" || u.Query != "" || u.Fragment != "" {
		return "", false
	}
	return CanonicalOrigin(u)
}

// ParseBareOrigin parses raw exactly as an origin value (e.g. an
// Access-Control-Allow-Origin header): it must be a syntactically valid
// http/https URL carrying no path, query, fragment, userinfo, or
// percent-escapes beyond an optional bare root.
func ParseBareOrigin(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	u, err := ParseURL(raw)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Query != "" || u.Fragment != "" {
		return "", false
	}
	if u.Path != "" && u.Path != "/" {
		return "", false
	}
	return CanonicalOrigin(u)
}

// SameOrigin reports whether a and b have equal, defined canonical origins.
func SameOrigin(a, b *URL) bool {
	oa, oka := CanonicalOrigin(a)
	ob, okb := CanonicalOrigin(b)
	return oka && okb && oa == ob
}

// SameOriginString is the string-origin analogue of SameOrigin. "null"
// compares equal only to "null" by byte equality.
func SameOriginString(a, b string) bool {
	oa, oka := CanonicalOriginString(a)
	ob, okb := CanonicalOriginString(b)
	return oka && okb && oa == ob
}
