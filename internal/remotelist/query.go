package remotelist

import (
	"net/url"
	"strings"
)

// Query is an order-preserving view of a raw query string. Pairs that are not
// touched by Set are re-emitted byte for byte.
type Query struct {
	pairs []pair
}

type pair struct {
	raw string // segment as it appeared, "k=v", "k" or ""
	key string // decoded key
}

// ParseQuery splits a raw query (without the leading '?').
func ParseQuery(raw string) Query {
	var q Query
	if raw == "" {
		return q
	}
	for _, seg := range strings.Split(raw, "&") {
		q.pairs = append(q.pairs, pair{raw: seg, key: decodeKey(seg)})
	}
	return q
}

func decodeKey(seg string) string {
	k, _, _ := strings.Cut(seg, "=")
	if dk, err := url.QueryUnescape(k); err == nil {
		return dk
	}
	return k
}

// Get returns the decoded value of the first parameter named name.
func (q Query) Get(name string) (string, bool) {
	for _, p := range q.pairs {
		if p.key != name {
			continue
		}
		_, v, _ := strings.Cut(p.raw, "=")
		if dv, err := url.QueryUnescape(v); err == nil {
			return dv, true
		}
		return v, true
	}
	return "", false
}

// Set replaces the value of the first parameter named name in place, or
// appends it when absent.
func (q *Query) Set(name, value string) {
	for i, p := range q.pairs {
		if p.key != name {
			continue
		}
		rawKey, _, _ := strings.Cut(p.raw, "=")
		q.pairs[i].raw = rawKey + "=" + url.QueryEscape(value)
		return
	}
	q.pairs = append(q.pairs, pair{
		raw: url.QueryEscape(name) + "=" + url.QueryEscape(value),
		key: name,
	})
}

// Encode joins the pairs back into a raw query.
func (q Query) Encode() string {
	segs := make([]string, len(q.pairs))
	for i, p := range q.pairs {
		segs[i] = p.raw
	}
	return strings.Join(segs, "&")
}

// splitURL separates a URL into the part before '?', the raw query and the
// fragment (including '#').
func splitURL(rawURL string) (base, query, fragment string) {
	base = rawURL
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base, fragment = base[:i], base[i:]
	}
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base, query = base[:i], base[i+1:]
	}
	return base, query, fragment
}

// QueryParam reads parameter name from rawURL.
func QueryParam(rawURL, name string) (string, bool) {
	_, query, _ := splitURL(rawURL)
	return ParseQuery(query).Get(name)
}

// WithQueryParam returns rawURL with parameter name set to value, leaving
// every other parameter untouched.
func WithQueryParam(rawURL, name, value string) string {
	base, query, fragment := splitURL(rawURL)
	q := ParseQuery(query)
	q.Set(name, value)
	return base + "?" + q.Encode() + fragment
}
