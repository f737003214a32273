// Package artist defines the artist record served by the collection endpoint
// and the free-text filters a listing page can carry in its query string.
package artist

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is a single artist as served by the collection endpoint.
// Fields the endpoint adds beyond these (painted pictures etc.) are ignored.
type Record struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Nickname  string    `json:"nickname"`
	BirthDate BirthDate `json:"birthDate"`
}

// DisplayName returns the nickname, or the name when no nickname is set.
func (r Record) DisplayName() string {
	if r.Nickname != "" {
		return r.Nickname
	}
	return r.Name
}

// ID is an artist identifier. Backends emit it either as a JSON number or
// as a JSON string; both decode to the same textual form.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode artist id: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode artist id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier text.
func (id ID) String() string {
	return string(id)
}

// BirthDate holds the birth date as text. It decodes from a JSON string,
// null, or a [year, month, day] array.
type BirthDate string

// UnmarshalJSON implements json.Unmarshaler.
func (d *BirthDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*d = ""
		return nil
	case len(data) > 0 && data[0] == '[':
		var parts []int
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("decode birth date: %w", err)
		}
		if len(parts) != 3 {
			return fmt.Errorf("decode birth date: want [year, month, day], got %d elements", len(parts))
		}
		*d = BirthDate(fmt.Sprintf("%04d-%02d-%02d", parts[0], parts[1], parts[2]))
		return nil
	default:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode birth date: %w", err)
		}
		*d = BirthDate(s)
		return nil
	}
}

// String returns the birth date text.
func (d BirthDate) String() string {
	return string(d)
}
