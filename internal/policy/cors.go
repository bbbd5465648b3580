package policy

import (
	"strings"

	"vibrowser/internal/netmodel"
	"vibrowser/internal/urlorigin"
)

func hasControlOrNonASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] == 0x7f || s[i] >= 0x80 {
			return true
		}
	}
	return false
}

// CheckCORSResponsePolicy checks the CORS response gate: a same-origin
// response always passes; a cross-origin one needs exactly one
// well-formed ACAO header matching policy.Origin (or "*", or "null" for
// the null-origin sentinel), plus a literal ACAC: true when credentials
// are in play.
func CheckCORSResponsePolicy(effectiveURL string, resp netmodel.Response, p RequestPolicy) Result {
	u, err := urlorigin.ParseURL(effectiveURL)
	if err != nil {
		return deny(CorsResponseBlocked, "effective url did not parse")
	}
	urlCanon, ok := urlorigin.CanonicalOrigin(u)
	if !ok {
		return deny(CorsResponseBlocked, "effective url has no canonical origin")
	}

	if policyCanon, ok := urlorigin.HTTPOrigin(p.Origin); ok && policyCanon == urlCanon {
		return allow()
	}

	acaoValues, acaoCount := resp.Headers.GetAll("Access-Control-Allow-Origin")
	if acaoCount != 1 {
		return deny(CorsResponseBlocked, "response must carry exactly one Access-Control-Allow-Origin header")
	}
	raw := acaoValues[0]
	if raw != strings.TrimSpace(raw) {
		return deny(CorsResponseBlocked, "Access-Control-Allow-Origin has surrounding whitespace")
	}
	if hasControlOrNonASCII(raw) {
		return deny(CorsResponseBlocked, "Access-Control-Allow-Origin contains control or non-ASCII bytes")
	}
	if strings.Contains(raw, ",") {
		return deny(CorsResponseBlocked, "Access-Control-Allow-Origin is multi-valued")
	}

	var acaoAllowed bool
	switch {
	case raw == "*":
		if p.CredentialsModeInclude {
			return deny(CorsResponseBlocked, "wildcard Access-Control-Allow-Origin is not allowed with credentials")
		}
		acaoAllowed = true
	case raw == "null":
		if p.CredentialsModeInclude {
			return deny(CorsResponseBlocked, "null Access-Control-Allow-Origin is not allowed with credentials")
		}
		acaoAllowed = p.Origin == urlorigin.NullOrigin
	default:
		bare, ok := urlorigin.ParseBareOrigin(raw)
		if !ok {
			return deny(CorsResponseBlocked, "Access-Control-Allow-Origin is not a bare origin")
		}
		policyCanon, ok := urlorigin.HTTPOrigin(p.Origin)
		acaoAllowed = ok && bare == policyCanon
	}
	if !acaoAllowed {
		return deny(CorsResponseBlocked, "Access-Control-Allow-Origin does not match the request origin")
	}

	if p.CredentialsModeInclude {
		acacValues, acacCount := resp.Headers.GetAll("Access-Control-Allow-Credentials")
		switch acacCount {
		case 0:
			if p.RequireACACForCredentialedCORS {
				return deny(CorsResponseBlocked, "credentialed response is missing Access-Control-Allow-Credentials")
			}
		case 1:
			if acacValues[0] != "true" {
				return deny(CorsResponseBlocked, "Access-Control-Allow-Credentials must be the literal value true")
			}
		default:
			return deny(CorsResponseBlocked, "duplicate Access-Control-Allow-Credentials headers")
		}
	}

	return allow()
}
