package urlorigin

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *URL {
	t.Helper()
	u, err := ParseURL(raw)
	require.NoError(t, err)
	return u
}

func TestCanonicalOriginOmitsDefaultPorts(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"http://example.com/", "http://example.com"},
		{"http://example.com:80/", "http://example.com"},
		{"https://example.com:443/a?b#c", "https://example.com"},
		{"ws://example.com:80/socket", "ws://example.com"},
		{"wss://example.com:443/socket", "wss://example.com"},
		{"https://example.com:8443/", "https://example.com:8443"},
		{"http://[::1]/", "http://[::1]"},
		{"http://[::1]:8080/", "http://[::1]:8080"},
		{"HTTP://EXAMPLE.COM/", "http://example.com"},
	}
	for _, tt := range tests {
		got, ok := CanonicalOrigin(mustParse(t, tt.raw))
		require.True(t, ok, tt.raw)
		require.Equal(t, tt.want, got, tt.raw)
	}
}

func TestCanonicalOriginUndefinedForOpaqueSchemes(t *testing.T) {
	for _, raw := range []string{"data:text/html,hi", "javascript:alert(1)", "file:///etc/hosts"} {
		_, ok := CanonicalOrigin(mustParse(t, raw))
		require.False(t, ok, raw)
	}
}

func TestCanonicalOriginStringIsIdempotent(t *testing.T) {
	for _, raw := range []string{
		"https://example.com/some/path?x=1",
		"http://example.com:8080/",
		"http://[2001:db8::1]:9000/x",
		"wss://chat.example.com/",
	} {
		once, ok := CanonicalOriginString(raw)
		require.True(t, ok, raw)
		twice, ok := CanonicalOriginString(once)
		require.True(t, ok, raw)
		require.Equal(t, once, twice, raw)
	}
}

func TestCanonicalOriginStringNullSentinel(t *testing.T) {
	got, ok := CanonicalOriginString("null")
	require.True(t, ok)
	require.Equal(t, NullOrigin, got)
}

func TestCanonicalOriginStringFailsClosedOnGarbage(t *testing.T) {
	for _, raw := range []string{"", "not a url", "http://exam ple.com", "http://a..b/"} {
		_, ok := CanonicalOriginString(raw)
		require.False(t, ok, raw)
	}
}

func TestHTTPOriginAcceptsOnlyBareHTTPOrigins(t *testing.T) {
	got, ok := HTTPOrigin("https://app.example.com")
	require.True(t, ok)
	require.Equal(t, "https://app.example.com", got)

	got, ok = HTTPOrigin("http://app.example.com:8080")
	require.True(t, ok)
	require.Equal(t, "http://app.example.com:8080", got)

	for _, raw := range []string{
		"ftp://example.com",
		"file:///x",
		"ws://example.com",
		"https://example.com/path",
		"https://example.com?q=1",
		"https://example.com#f",
		"https://user@example.com",
		"https://example.com:",
		"null",
	} {
		_, ok := HTTPOrigin(raw)
		require.False(t, ok, raw)
	}
}

func TestParseBareOriginToleratesBareRootSlash(t *testing.T) {
	got, ok := ParseBareOrigin("https://app.example.com/")
	require.True(t, ok)
	require.Equal(t, "https://app.example.com", got)

	_, ok = ParseBareOrigin("https://app.example.com/api")
	require.False(t, ok)
}

func TestSameOrigin(t *testing.T) {
	a := mustParse(t, "https://example.com/a")
	b := mustParse(t, "https://example.com:443/b")
	c := mustParse(t, "http://example.com/a")
	d := mustParse(t, "data:text/html,x")

	require.True(t, SameOrigin(a, b))
	require.False(t, SameOrigin(a, c), "scheme participates in origin")
	require.False(t, SameOrigin(a, d), "opaque urls are same-origin with nothing")
	require.False(t, SameOrigin(d, d), "even themselves")
}

func TestSameOriginString(t *testing.T) {
	require.True(t, SameOriginString("https://example.com", "https://example.com:443/x"))
	require.False(t, SameOriginString("https://example.com", "https://other.example.com"))
	require.True(t, SameOriginString("null", "null"))
	require.False(t, SameOriginString("null", "https://example.com"))
	require.False(t, SameOriginString("", ""))
}
