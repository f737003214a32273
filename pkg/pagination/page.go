package pagination

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Unknown marks page metadata the backend did not report.
const Unknown = -1

// ErrMalformed indicates a response body that is not a recognizable page.
var ErrMalformed = errors.New("malformed page response")

// Shape identifies which response form a page was decoded from.
type Shape string

const (
	// ShapeEnvelope is an object wrapping the items with page metadata.
	ShapeEnvelope Shape = "envelope"

	// ShapeBare is a plain JSON array of items.
	ShapeBare Shape = "bare"
)

// Page is the canonical form of one page of T, whatever the wire shape.
type Page[T any] struct {
	// Items in server order. Never nil after Decode.
	Items []T

	// Number is the zero-based page index reported by the server, or Unknown.
	Number int

	// TotalPages is the page count reported by the server, or Unknown.
	TotalPages int

	// Last is the server's own end-of-collection flag, nil when not reported.
	Last *bool

	// Shape is the wire form the page was decoded from.
	Shape Shape
}

// envelope mirrors the fields of a Spring Data Page that matter here.
type envelope[T any] struct {
	Content    *[]T  `json:"content"`
	Number     *int  `json:"number"`
	TotalPages *int  `json:"totalPages"`
	Last       *bool `json:"last"`
}

// Decode normalizes a response body into a Page. Bodies that are neither a
// JSON array nor an object carrying a "content" array yield ErrMalformed.
func Decode[T any](body []byte) (*Page[T], error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformed)
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if items == nil {
			items = []T{}
		}
		return &Page[T]{
			Items:      items,
			Number:     Unknown,
			TotalPages: Unknown,
			Shape:      ShapeBare,
		}, nil

	case '{':
		var env envelope[T]
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if env.Content == nil {
			return nil, fmt.Errorf("%w: envelope has no content array", ErrMalformed)
		}

		page := &Page[T]{
			Items:      *env.Content,
			Number:     Unknown,
			TotalPages: Unknown,
			Last:       env.Last,
			Shape:      ShapeEnvelope,
		}
		if page.Items == nil {
			page.Items = []T{}
		}
		if env.Number != nil {
			if *env.Number < 0 {
				return nil, fmt.Errorf("%w: negative page number %d", ErrMalformed, *env.Number)
			}
			page.Number = *env.Number
		}
		if env.TotalPages != nil {
			if *env.TotalPages < 0 {
				return nil, fmt.Errorf("%w: negative total pages %d", ErrMalformed, *env.TotalPages)
			}
			page.TotalPages = *env.TotalPages
		}
		return page, nil

	default:
		return nil, fmt.Errorf("%w: unexpected leading byte %q", ErrMalformed, trimmed[0])
	}
}

// Len returns the number of items on the page.
func (p *Page[T]) Len() int {
	return len(p.Items)
}

// IsEmpty reports whether the page carries no items.
func (p *Page[T]) IsEmpty() bool {
	return len(p.Items) == 0
}

// HasNumber reports whether the server reported the page index.
func (p *Page[T]) HasNumber() bool {
	return p.Number != Unknown
}

// HasTotalPages reports whether the server reported the page count.
func (p *Page[T]) HasTotalPages() bool {
	return p.TotalPages != Unknown
}

// IsLast reports whether no page follows this one. requestedPage is used when
// the server did not report its own page index; requestedSize <= 0 means no
// size was sent and the short-page rule does not apply.
func (p *Page[T]) IsLast(requestedPage, requestedSize int) bool {
	if p.IsEmpty() {
		return true
	}

	if p.Last != nil && *p.Last {
		return true
	}

	if p.HasTotalPages() {
		number := requestedPage
		if p.HasNumber() {
			number = p.Number
		}
		if number+1 >= p.TotalPages {
			return true
		}
	}

	return requestedSize > 0 && p.Len() < requestedSize
}
