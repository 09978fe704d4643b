package mailhook

import (
	"encoding/json"
	"iter"
	"net/http"
	"net/textproto"
	"slices"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Shape is the structural form of a response's data.
type Shape int

const (
	// ShapeObject is a single JSON object.
	ShapeObject Shape = iota
	// ShapeList is a JSON array, usually of objects.
	ShapeList
	// ShapeValue is any other JSON value, including null.
	ShapeValue
)

func (s Shape) String() string {
	switch s {
	case ShapeObject:
		return "object"
	case ShapeList:
		return "list"
	default:
		return "value"
	}
}

// Response wraps one successful API response.
//
// List endpoints may wrap their items in a {"data": [...], "meta": {...}}
// envelope. The envelope is removed at construction: Data holds the inner
// value and Meta the pagination metadata. Responses without a "data" key
// keep the whole body as Data and have no Meta.
//
// The accessors behave according to the shape of Data, which never changes
// after construction. An object counts as a single item.
type Response struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Headers maps canonical header names to their values. Repeated
	// headers are joined with ", ".
	Headers map[string]string

	shape  Shape
	object map[string]any
	list   []any
	value  any
	meta   map[string]any
}

// newResponse builds a Response from an already decoded JSON body.
func newResponse(status int, header http.Header, parsed any) *Response {
	r := &Response{
		StatusCode: status,
		Headers:    flattenHeader(header),
	}

	data := parsed
	if envelope, ok := parsed.(map[string]any); ok {
		if inner, ok := envelope["data"]; ok && inner != nil && inner != false {
			data = inner
			r.meta, _ = envelope["meta"].(map[string]any)
		}
	}

	switch v := data.(type) {
	case map[string]any:
		r.shape = ShapeObject
		r.object = v
	case []any:
		r.shape = ShapeList
		r.list = v
	default:
		r.shape = ShapeValue
		r.value = v
	}
	return r
}

// parseBody decodes a success body. An empty body is an empty object and a
// body that is not valid JSON is kept as {"raw": text}.
func parseBody(body []byte) any {
	if len(strings.TrimSpace(string(body))) == 0 {
		return map[string]any{}
	}
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return map[string]any{"raw": string(body)}
	}
	return parsed
}

func flattenHeader(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for key, values := range h {
		out[textproto.CanonicalMIMEHeaderKey(key)] = strings.Join(values, ", ")
	}
	return out
}

// Shape returns the structural form of Data.
func (r *Response) Shape() Shape {
	return r.shape
}

// Data returns the unwrapped body: a map[string]any, a []any, or another
// JSON value.
func (r *Response) Data() any {
	switch r.shape {
	case ShapeObject:
		return r.object
	case ShapeList:
		return r.list
	default:
		return r.value
	}
}

// Meta returns the envelope metadata, or nil when the body had none.
func (r *Response) Meta() map[string]any {
	return r.meta
}

// Header returns the value of the named response header. The lookup is
// case-insensitive.
func (r *Response) Header(name string) string {
	return r.Headers[textproto.CanonicalMIMEHeaderKey(name)]
}

// Get returns the value stored under key when Data is an object, and nil
// otherwise.
func (r *Response) Get(key string) any {
	if r.shape != ShapeObject {
		return nil
	}
	return r.object[key]
}

// GetString returns the value under key when it is a string.
func (r *Response) GetString(key string) string {
	s, _ := r.Get(key).(string)
	return s
}

// Has reports whether Data is an object containing key.
func (r *Response) Has(key string) bool {
	if r.shape != ShapeObject {
		return false
	}
	_, ok := r.object[key]
	return ok
}

// Keys returns the sorted keys of Data when it is an object, and an empty
// slice otherwise.
func (r *Response) Keys() []string {
	if r.shape != ShapeObject {
		return []string{}
	}
	keys := make([]string, 0, len(r.object))
	for k := range r.object {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Items returns the elements of Data when it is a list, or Data itself as
// the only item otherwise.
func (r *Response) Items() []any {
	if r.shape == ShapeList {
		return r.list
	}
	return []any{r.Data()}
}

// All returns an iterator over Items. It may be ranged over any number of
// times.
func (r *Response) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, item := range r.Items() {
			if !yield(item) {
				return
			}
		}
	}
}

// Each calls fn for every item, in order.
func (r *Response) Each(fn func(item any)) {
	for item := range r.All() {
		fn(item)
	}
}

// First returns the first element of a list, or Data itself otherwise. An
// empty list yields nil.
func (r *Response) First() any {
	if r.shape != ShapeList {
		return r.Data()
	}
	if len(r.list) == 0 {
		return nil
	}
	return r.list[0]
}

// Last returns the last element of a list, or Data itself otherwise. An
// empty list yields nil.
func (r *Response) Last() any {
	if r.shape != ShapeList {
		return r.Data()
	}
	if len(r.list) == 0 {
		return nil
	}
	return r.list[len(r.list)-1]
}

// Count returns the number of items: the list length, or 1 for any other
// shape.
func (r *Response) Count() int {
	if r.shape == ShapeList {
		return len(r.list)
	}
	return 1
}

// IsEmpty reports whether Data is an empty object, list or string, or null.
func (r *Response) IsEmpty() bool {
	switch r.shape {
	case ShapeObject:
		return len(r.object) == 0
	case ShapeList:
		return len(r.list) == 0
	}
	switch v := r.value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	}
	return false
}

// Success reports whether the status is in the 2xx range.
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ToMap returns Data when it is an object. Otherwise it rebuilds the
// envelope as {"data": ..., "meta": ...}, leaving out absent entries.
func (r *Response) ToMap() map[string]any {
	if r.shape == ShapeObject {
		return r.object
	}
	out := map[string]any{}
	if data := r.Data(); data != nil {
		out["data"] = data
	}
	if r.meta != nil {
		out["meta"] = r.meta
	}
	return out
}

// MarshalJSON encodes ToMap.
func (r *Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToMap())
}

// Decode copies Data into out, which is typically a pointer to a struct or
// to a slice of structs. Fields are matched using their json tags.
func (r *Response) Decode(out any) error {
	return decode(r.Data(), out)
}

// DecodeMeta copies Meta into out.
func (r *Response) DecodeMeta(out any) error {
	return decode(r.meta, out)
}

func decode(in, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(in)
}
