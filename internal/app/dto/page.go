package dto

import (
	"net/url"
	"strconv"
)

// Page is the paginated list envelope.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPage builds the envelope for the given 1-based page. base is the request
// URL; next and previous keep its query and only change "page". The link to
// page 1 drops the parameter.
func NewPage[T any](results []T, count int64, page, limit int, base *url.URL) Page[T] {
	if results == nil {
		results = []T{}
	}
	p := Page[T]{Count: count, Results: results}

	if base != nil {
		if int64(page)*int64(limit) < count {
			next := pageURL(base, page+1)
			p.Next = &next
		}
		if page > 1 {
			prev := pageURL(base, page-1)
			p.Previous = &prev
		}
	}
	return p
}

func pageURL(base *url.URL, page int) string {
	u := *base
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
