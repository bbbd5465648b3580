package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vibrowser/internal/netmodel"
)

func acaoResp(values ...string) netmodel.Response {
	resp := netmodel.Response{StatusCode: 200}
	for _, v := range values {
		resp.Headers = append(resp.Headers, netmodel.HeaderField{Name: "Access-Control-Allow-Origin", Value: v})
	}
	return resp
}

func TestCORSSameOriginPassesWithoutACAO(t *testing.T) {
	p := RequestPolicy{Origin: "https://app.example.com"}
	res := CheckCORSResponsePolicy("https://app.example.com/api/data", netmodel.Response{StatusCode: 200}, p)
	require.True(t, res.Allowed)
}

func TestCORSCrossOriginWithoutACAOBlocked(t *testing.T) {
	p := RequestPolicy{Origin: "https://app.example.com"}
	res := CheckCORSResponsePolicy("https://api.example.com/data", netmodel.Response{StatusCode: 200}, p)
	require.False(t, res.Allowed)
	require.Equal(t, CorsResponseBlocked, res.Violation)
}

func TestCORSWildcardAllowedWithoutCredentials(t *testing.T) {
	p := RequestPolicy{Origin: "https://app.example.com"}
	res := CheckCORSResponsePolicy("https://api.example.com/data", acaoResp("*"), p)
	require.True(t, res.Allowed)
}

func TestCORSExactOriginMatchAllowed(t *testing.T) {
	p := RequestPolicy{Origin: "https://app.example.com"}
	res := CheckCORSResponsePolicy("https://api.example.com/data", acaoResp("https://app.example.com"), p)
	require.True(t, res.Allowed)
}

func TestCORSDefaultPortACAONormalizes(t *testing.T) {
	// ACAO "https://app.example.com:443" canonicalizes to the same origin.
	p := RequestPolicy{Origin: "https://app.example.com"}
	res := CheckCORSResponsePolicy("https://api.example.com/data", acaoResp("https://app.example.com:443"), p)
	require.True(t, res.Allowed)
}

func TestCORSDuplicateACAOHeadersRejected(t *testing.T) {
	p := RequestPolicy{Origin: "https://app.example.com"}
	res := CheckCORSResponsePolicy("https://api.example.com/data",
		acaoResp("https://app.example.com", "https://app.example.com"), p)
	require.False(t, res.Allowed)
}

func TestCORSDuplicateCaseVariantACAOHeadersRejected(t *testing.T) {
	p := RequestPolicy{Origin: "https://app.example.com"}
	resp := netmodel.Response{
		StatusCode: 200,
		Headers: netmodel.Headers{
			{Name: "Access-Control-Allow-Origin", Value: "https://app.example.com"},
			{Name: "ACCESS-CONTROL-ALLOW-ORIGIN", Value: "*"},
		},
	}
	res := CheckCORSResponsePolicy("https://api.example.com/data", resp, p)
	require.False(t, res.Allowed)
}

func TestCORSMalformedACAOValuesRejected(t *testing.T) {
	p := RequestPolicy{Origin: "https://app.example.com"}
	for _, value := range []string{
		" https://app.example.com",
		"https://app.example.com ",
		"https://app.example.com, https://other.example.com",
		"https://app.example.com,",
		"https://app.example.com/path",
		"https://user@app.example.com",
		"https://app%2eexample.com",
		`https://app.example.com\x`,
		"https://app.example.com:",
		"https://app..example.com",
		"https://192.168.01.1",
		"https://app.example.com\x01",
		"https://app.exämple.com",
	} {
		res := CheckCORSResponsePolicy("https://api.example.com/data", acaoResp(value), p)
		require.False(t, res.Allowed, "ACAO %q must be rejected", value)
		require.Equal(t, CorsResponseBlocked, res.Violation)
	}
}

func TestCORSMismatchedACAOOriginRejected(t *testing.T) {
	p := RequestPolicy{Origin: "https://app.example.com"}
	res := CheckCORSResponsePolicy("https://api.example.com/data", acaoResp("https://evil.example.com"), p)
	require.False(t, res.Allowed)
}

func TestCORSMalformedPolicyOriginFailsClosed(t *testing.T) {
	// A malformed policy origin cannot claim same-origin, and cannot match
	// any serialized ACAO origin either.
	p := RequestPolicy{Origin: "https://app example.com"}
	res := CheckCORSResponsePolicy("https://api.example.com/data", acaoResp("https://api.example.com"), p)
	require.False(t, res.Allowed)
}

func TestCORSUnparsableEffectiveURLFailsClosed(t *testing.T) {
	p := RequestPolicy{Origin: "https://app.example.com"}
	res := CheckCORSResponsePolicy("http://exam ple.com", acaoResp("*"), p)
	require.False(t, res.Allowed)
	require.Equal(t, CorsResponseBlocked, res.Violation)
}

func credentialedResp(acao string, acac ...string) netmodel.Response {
	resp := acaoResp(acao)
	for _, v := range acac {
		resp.Headers = append(resp.Headers, netmodel.HeaderField{Name: "Access-Control-Allow-Credentials", Value: v})
	}
	return resp
}

func TestCredentialedCORSRequiresACAC(t *testing.T) {
	p := RequestPolicy{
		Origin:                         "https://app.example.com",
		CredentialsModeInclude:         true,
		RequireACACForCredentialedCORS: true,
	}
	res := CheckCORSResponsePolicy("https://api.example.com/data",
		credentialedResp("https://app.example.com"), p)
	require.False(t, res.Allowed, "missing ACAC must block a credentialed response")

	res = CheckCORSResponsePolicy("https://api.example.com/data",
		credentialedResp("https://app.example.com", "true"), p)
	require.True(t, res.Allowed)
}

func TestCredentialedCORSRejectsNonLiteralACAC(t *testing.T) {
	p := RequestPolicy{
		Origin:                         "https://app.example.com",
		CredentialsModeInclude:         true,
		RequireACACForCredentialedCORS: true,
	}
	for _, value := range []string{"True", "TRUE", " true", "true ", "true, true", "1", "yes", "tru\x01e"} {
		res := CheckCORSResponsePolicy("https://api.example.com/data",
			credentialedResp("https://app.example.com", value), p)
		require.False(t, res.Allowed, "ACAC %q must be rejected", value)
	}
}

func TestCredentialedCORSRejectsDuplicateACAC(t *testing.T) {
	p := RequestPolicy{
		Origin:                         "https://app.example.com",
		CredentialsModeInclude:         true,
		RequireACACForCredentialedCORS: true,
	}
	res := CheckCORSResponsePolicy("https://api.example.com/data",
		credentialedResp("https://app.example.com", "true", "true"), p)
	require.False(t, res.Allowed)
}

func TestCredentialedCORSOptionalACACStillStrict(t *testing.T) {
	p := RequestPolicy{
		Origin:                         "https://app.example.com",
		CredentialsModeInclude:         true,
		RequireACACForCredentialedCORS: false,
	}
	res := CheckCORSResponsePolicy("https://api.example.com/data",
		credentialedResp("https://app.example.com"), p)
	require.True(t, res.Allowed, "absent ACAC is fine when not required")

	res = CheckCORSResponsePolicy("https://api.example.com/data",
		credentialedResp("https://app.example.com", "True"), p)
	require.False(t, res.Allowed, "a present ACAC must still be the literal lowercase true")
}
