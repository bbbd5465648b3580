package policy

import (
	"vibrowser/internal/urlorigin"
)

// RequestPolicy configures check_request_policy / build_request_headers /
// check_cors_response_policy for one navigation or subresource request.
type RequestPolicy struct {
	AllowedSchemes                 []string
	AllowCrossOrigin               bool
	Origin                         string
	EnforceConnectSrc              bool
	ConnectSrcSources              []string
	DefaultSrcSources              []string
	CredentialsModeInclude         bool
	RequireACACForCredentialedCORS bool
}

// DefaultRequestPolicy returns the shipping default: http/https/file
// schemes allowed, cross-origin allowed, no CSP enforcement. "file" is
// included for local-document testing; see SPEC_FULL.md §9 for the reasoning.
func DefaultRequestPolicy() RequestPolicy {
	return RequestPolicy{
		AllowedSchemes:                 []string{"http", "https", "file"},
		AllowCrossOrigin:               true,
		RequireACACForCredentialedCORS: true,
	}
}

func schemeAllowed(scheme string, allowed []string) bool {
	for _, s := range allowed {
		if s == scheme {
			return true
		}
	}
	return false
}

// CheckRequestPolicy runs the ordered gates: empty URL, parse failure,
// scheme allow-list, cross-origin, then CSP connect-src / default-src.
// The first failing gate wins.
func CheckRequestPolicy(rawURL string, p RequestPolicy) Result {
	if rawURL == "" {
		return deny(EmptyUrl, "request url is empty")
	}

	u, err := urlorigin.ParseURL(rawURL)
	if err != nil {
		return deny(UnsupportedScheme, "url did not parse: "+err.Error())
	}

	allowed := p.AllowedSchemes
	if len(allowed) == 0 {
		allowed = DefaultRequestPolicy().AllowedSchemes
	}
	if !schemeAllowed(u.Scheme, allowed) {
		return deny(UnsupportedScheme, "scheme "+u.Scheme+" is not in the allow-list")
	}

	if !p.AllowCrossOrigin && p.Origin != "" {
		policyOrigin, ok := urlorigin.CanonicalOriginString(p.Origin)
		if !ok {
			return deny(CrossOriginBlocked, "policy origin does not parse")
		}
		urlOrigin, ok := urlorigin.CanonicalOrigin(u)
		if !ok || urlOrigin != policyOrigin {
			return deny(CrossOriginBlocked, "request origin differs from policy origin")
		}
	}

	if p.EnforceConnectSrc {
		sources := p.ConnectSrcSources
		if len(sources) == 0 {
			sources = p.DefaultSrcSources
		}
		if !anySourceMatches(sources, u, p.Origin) {
			return deny(CspConnectSrcBlocked, "no connect-src/default-src source matched the request url")
		}
	}

	return allow()
}

// BuildRequestHeadersForPolicy emits an Origin header iff policy.Origin
// canonicalizes under the strict http(s)-only rules, the request crosses
// origins, and the target url has a defined canonical origin.
func BuildRequestHeadersForPolicy(rawURL string, p RequestPolicy) map[string]string {
	headers := map[string]string{}

	originCanon, ok := urlorigin.HTTPOrigin(p.Origin)
	if !ok {
		return headers
	}
	u, err := urlorigin.ParseURL(rawURL)
	if err != nil {
		return headers
	}
	urlCanon, ok := urlorigin.CanonicalOrigin(u)
	if !ok {
		return headers
	}
	if originCanon == urlCanon {
		return headers
	}
	headers["Origin"] = originCanon
	return headers
}
