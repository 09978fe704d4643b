package mailhook

import (
	"net/url"
	"strings"
)

// ListOptions holds the pagination parameters accepted by list endpoints.
// Zero values are not sent.
type ListOptions struct {
	Page    int
	PerPage int
}

func (o *ListOptions) apply(p Params) {
	if o == nil {
		return
	}
	p.setInt("page", o.Page)
	p.setInt("per_page", o.PerPage)
}

// Bool returns a pointer to v, for optional boolean parameters.
func Bool(v bool) *bool {
	return &v
}

func (p Params) setString(key, value string) {
	if value != "" {
		p[key] = value
	}
}

func (p Params) setInt(key string, value int) {
	if value != 0 {
		p[key] = value
	}
}

func (p Params) setBool(key string, value *bool) {
	if value != nil {
		p[key] = *value
	}
}

// resourcePath joins path segments, escaping each one.
func resourcePath(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}
