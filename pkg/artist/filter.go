package artist

import (
	"fmt"
	"net/url"
	"strings"
)

// Query string keys read from the listing page and forwarded to the
// collection endpoint.
const (
	KeyName      = "name"
	KeyNickname  = "nickname"
	KeyBirthDate = "birthDate"
)

// Filter holds the free-text filters active on a listing page.
// Empty fields are not sent.
type Filter struct {
	Name      string `url:"name,omitempty" mapstructure:"name"`
	Nickname  string `url:"nickname,omitempty" mapstructure:"nickname"`
	BirthDate string `url:"birthDate,omitempty" mapstructure:"birth_date"`
}

// IsZero reports whether no filter is active.
func (f Filter) IsZero() bool {
	return f.Name == "" && f.Nickname == "" && f.BirthDate == ""
}

// ParseFilter extracts the filters from a raw (still encoded) query string.
// Values are URL-decoded and trimmed; only the first value of a repeated key
// is used.
func ParseFilter(rawQuery string) (Filter, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return Filter{}, fmt.Errorf("parse filter query: %w", err)
	}

	return Filter{
		Name:      strings.TrimSpace(values.Get(KeyName)),
		Nickname:  strings.TrimSpace(values.Get(KeyNickname)),
		BirthDate: strings.TrimSpace(values.Get(KeyBirthDate)),
	}, nil
}

// FilterFromURL extracts the filters from the query string of a page URL.
// An empty location yields an empty filter.
func FilterFromURL(location string) (Filter, error) {
	if location == "" {
		return Filter{}, nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return Filter{}, fmt.Errorf("parse location: %w", err)
	}
	return ParseFilter(u.RawQuery)
}
