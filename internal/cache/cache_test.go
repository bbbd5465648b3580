package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"vibrowser/internal/netmodel"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestStoreAndLookupRoundTrip(t *testing.T) {
	c := newTestCache(t)
	c.SetPolicy(CacheAll)
	resp := netmodel.Response{StatusCode: 200, Body: "hello"}
	require.NoError(t, c.Store("https://example.com/", resp))

	got, ok, err := c.Lookup("https://example.com/")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, resp, got)
}

func TestNoCacheStoreIsNoOp(t *testing.T) {
	c := newTestCache(t)
	c.SetPolicy(NoCache)
	require.NoError(t, c.Store("https://example.com/", netmodel.Response{StatusCode: 200}))

	size, err := c.Size()
	require.NoError(t, err)
	require.Equal(t, 0, size)
}

func TestErrorResponsesAreNeverCached(t *testing.T) {
	c := newTestCache(t)
	c.SetPolicy(CacheAll)
	require.NoError(t, c.Store("https://example.com/", netmodel.Response{Err: "boom"}))

	_, ok, err := c.Lookup("https://example.com/")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPolicySwapHidesEntriesUntilRestored(t *testing.T) {
	c := newTestCache(t)
	c.SetPolicy(CacheAll)
	require.NoError(t, c.Store("https://example.com/", netmodel.Response{StatusCode: 200}))

	c.SetPolicy(NoCache)
	_, ok, err := c.Lookup("https://example.com/")
	require.NoError(t, err)
	require.False(t, ok, "NoCache must hide previously cached entries")

	c.SetPolicy(CacheAll)
	_, ok, err = c.Lookup("https://example.com/")
	require.NoError(t, err)
	require.True(t, ok, "entries survive a policy swap back to CacheAll")
}

func TestStoringOneURLDoesNotAffectAnother(t *testing.T) {
	c := newTestCache(t)
	c.SetPolicy(CacheAll)
	require.NoError(t, c.Store("https://a.example.com/", netmodel.Response{StatusCode: 200, Body: "a"}))

	_, ok, err := c.Lookup("https://b.example.com/")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestClearEmptiesEntries(t *testing.T) {
	c := newTestCache(t)
	c.SetPolicy(CacheAll)
	require.NoError(t, c.Store("https://example.com/", netmodel.Response{StatusCode: 200}))
	require.NoError(t, c.Clear())

	size, err := c.Size()
	require.NoError(t, err)
	require.Equal(t, 0, size)
}
