package urlorigin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseURLValid(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		scheme string
		host   string
		port   int
		path   string
	}{
		{"plain http", "http://example.com/index.html", "http", "example.com", 0, "/index.html"},
		{"explicit port", "https://example.com:8443/a", "https", "example.com", 8443, "/a"},
		{"scheme and host fold to lowercase", "HTTPS://Example.COM/A", "https", "example.com", 0, "/A"},
		{"ipv4", "http://192.168.1.1/", "http", "192.168.1.1", 0, "/"},
		{"ipv4 octet 255", "http://255.255.255.255/", "http", "255.255.255.255", 0, "/"},
		{"ipv6 bracketed", "http://[::1]/x", "http", "::1", 0, "/x"},
		{"ipv6 with port", "http://[2001:db8::1]:8080/", "http", "2001:db8::1", 8080, "/"},
		{"hyphenated labels", "https://my-api.eu-west-1.example.com/", "https", "my-api.eu-west-1.example.com", 0, "/"},
		{"no path", "https://example.com", "https", "example.com", 0, ""},
		{"file empty authority", "file:///etc/hosts", "file", "", 0, "/etc/hosts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseURL(tt.raw)
			require.NoError(t, err)
			require.Equal(t, tt.scheme, u.Scheme)
			require.Equal(t, tt.host, u.Host)
			require.Equal(t, tt.port, u.Port)
			require.Equal(t, tt.path, u.Path)
		})
	}
}

func TestParseURLRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"no scheme", "example.com/path"},
		{"leading colon", ":nothing"},
		{"scheme starts with digit", "1http://example.com/"},
		{"control character", "http://exam\x01ple.com/"},
		{"tab in url", "http://example.com/\tpath"},
		{"non-ascii in authority", "http://exämple.com/"},
		{"backslash in authority", `http://example.com\evil.com/`},
		{"percent-escape in authority", "http://ex%61mple.com/"},
		{"userinfo", "http://user@example.com/"},
		{"space in host", "http://exam ple.com/"},
		{"empty explicit port", "http://example.com:/"},
		{"port zero", "http://example.com:0/"},
		{"port out of range", "http://example.com:65536/"},
		{"non-numeric port", "http://example.com:8a80/"},
		{"leading-zero ipv4 octet", "http://192.168.01.1/"},
		{"ipv4 octet out of range", "http://192.168.1.256/"},
		{"legacy single-integer host", "http://3232235777/"},
		{"consecutive dots", "http://a..example.com/"},
		{"leading dot", "http://.example.com/"},
		{"trailing dot", "http://example.com./"},
		{"overlong label", "http://" + strings.Repeat("a", 64) + ".com/"},
		{"empty authority", "http:///path"},
		{"unterminated ipv6 literal", "http://[::1/"},
		{"garbage after ipv6 literal", "http://[::1]x/"},
		{"unbracketed ipv6", "http://::1/"},
		{"underscore in label", "http://bad_host.example.com/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURL(tt.raw)
			require.Error(t, err)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, tt.raw, perr.Raw)
		})
	}
}

func TestParseURLOpaqueSchemes(t *testing.T) {
	for _, raw := range []string{"data:text/html,hi", "javascript:alert(1)", "mailto:a@example.com"} {
		u, err := ParseURL(raw)
		require.NoError(t, err, raw)
		require.True(t, u.Opaque, raw)
	}
}

func TestParseURLSplitsQueryAndFragment(t *testing.T) {
	u, err := ParseURL("https://example.com/search?q=go#results")
	require.NoError(t, err)
	require.Equal(t, "/search", u.Path)
	require.Equal(t, "q=go", u.Query)
	require.Equal(t, "results", u.Fragment)
}

func TestParseURLNormalizesDotSegments(t *testing.T) {
	tests := []struct {
		raw  string
		path string
	}{
		{"https://example.com/a/./b", "/a/b"},
		{"https://example.com/a/../b", "/b"},
		{"https://example.com/v1/../admin", "/admin"},
		{"https://example.com/a/b/", "/a/b/"},
		{"https://example.com/a/..", "/"},
	}
	for _, tt := range tests {
		u, err := ParseURL(tt.raw)
		require.NoError(t, err, tt.raw)
		require.Equal(t, tt.path, u.Path, tt.raw)
	}
}

func TestParseURLDecodesUnreservedEscapesBeforeResolution(t *testing.T) {
	// %2e is ".", so an encoded traversal resolves just like a literal one.
	u, err := ParseURL("https://example.com/v1/%2e%2e/admin")
	require.NoError(t, err)
	require.Equal(t, "/admin", u.Path)

	// Unreserved bytes decode; reserved ones stay escaped.
	u, err = ParseURL("https://example.com/%41bc")
	require.NoError(t, err)
	require.Equal(t, "/Abc", u.Path)

	u, err = ParseURL("https://example.com/a%2Fb")
	require.NoError(t, err)
	require.Equal(t, "/a%2Fb", u.Path)
}
