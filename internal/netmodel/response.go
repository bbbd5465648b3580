// Package netmodel holds the small data shapes the policy engine and
// response cache share, independent of any particular transport.
package netmodel

import "strings"

// HeaderField is one header line, case preserved as received.
type HeaderField struct {
	Name  string
	Value string
}

// Headers is a case-insensitive multi-map that still lets callers detect
// exact-case duplicates.
type Headers []HeaderField

// GetAll returns every value whose name matches want case-insensitively,
// in header order, along with how many such entries exist.
func (h Headers) GetAll(want string) ([]string, int) {
	var values []string
	for _, f := range h {
		if strings.EqualFold(f.Name, want) {
			values = append(values, f.Value)
		}
	}
	return values, len(values)
}

// Response is a completed (or failed) HTTP-like exchange.
type Response struct {
	StatusCode int
	Headers    Headers
	Body       string
	Err        string
}

// IsError reports whether r represents a failed exchange: a non-empty
// error string or a zero status code.
func (r Response) IsError() bool {
	return r.Err != "" || r.StatusCode == 0
}
