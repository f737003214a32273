package pagination

import (
	"errors"
	"testing"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func boolPtr(b bool) *bool { return &b }

func TestDecode_Envelope(t *testing.T) {
	body := []byte(`{"content":[{"id":1,"name":"a"},{"id":2,"name":"b"}],"number":1,"totalPages":3,"size":2,"last":false}`)

	page, err := Decode[item](body)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if page.Shape != ShapeEnvelope {
		t.Errorf("Shape = %q, want %q", page.Shape, ShapeEnvelope)
	}
	if page.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", page.Len())
	}
	if page.Items[0].Name != "a" || page.Items[1].Name != "b" {
		t.Errorf("Items out of server order: %+v", page.Items)
	}
	if page.Number != 1 {
		t.Errorf("Number = %d, want 1", page.Number)
	}
	if page.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", page.TotalPages)
	}
	if page.Last == nil || *page.Last {
		t.Errorf("Last = %v, want false", page.Last)
	}
}

func TestDecode_Bare(t *testing.T) {
	page, err := Decode[item]([]byte("  [{\"id\":5,\"name\":\"x\"}]\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if page.Shape != ShapeBare {
		t.Errorf("Shape = %q, want %q", page.Shape, ShapeBare)
	}
	if page.HasNumber() || page.HasTotalPages() || page.Last != nil {
		t.Errorf("bare page should carry no metadata: %+v", page)
	}
	if page.Len() != 1 || page.Items[0].ID != 5 {
		t.Errorf("Items = %+v", page.Items)
	}
}

func TestDecode_EmptyShapes(t *testing.T) {
	for _, body := range []string{`[]`, `{"content":[]}`} {
		t.Run(body, func(t *testing.T) {
			page, err := Decode[item]([]byte(body))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if page.Items == nil {
				t.Error("Items should be non-nil")
			}
			if !page.IsEmpty() {
				t.Errorf("IsEmpty() = false, want true")
			}
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"whitespace", "   \n"},
		{"html error page", "<html>oops</html>"},
		{"null", "null"},
		{"truncated array", `[{"id":1}`},
		{"object without content", `{"items":[]}`},
		{"null content", `{"content":null}`},
		{"content not array", `{"content":{"id":1}}`},
		{"wrong item type", `[1,2,3]`},
		{"negative number", `{"content":[],"number":-1}`},
		{"negative total", `{"content":[],"totalPages":-2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Decode[item]([]byte(tt.body))
			if err == nil {
				t.Fatalf("Decode() = %+v, want error", page)
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("error %v is not ErrMalformed", err)
			}
		})
	}
}

func TestPage_IsLast(t *testing.T) {
	three := []item{{ID: 1}, {ID: 2}, {ID: 3}}

	tests := []struct {
		name          string
		page          Page[item]
		requestedPage int
		requestedSize int
		want          bool
	}{
		{
			name:          "empty bare page",
			page:          Page[item]{Items: []item{}, Number: Unknown, TotalPages: Unknown},
			requestedSize: 10,
			want:          true,
		},
		{
			name:          "full bare page",
			page:          Page[item]{Items: three, Number: Unknown, TotalPages: Unknown},
			requestedSize: 3,
			want:          false,
		},
		{
			name:          "short bare page",
			page:          Page[item]{Items: three, Number: Unknown, TotalPages: Unknown},
			requestedSize: 10,
			want:          true,
		},
		{
			name:          "no size requested",
			page:          Page[item]{Items: three, Number: Unknown, TotalPages: Unknown},
			requestedSize: 0,
			want:          false,
		},
		{
			name:          "envelope last flag",
			page:          Page[item]{Items: three, Number: 0, TotalPages: Unknown, Last: boolPtr(true)},
			requestedSize: 3,
			want:          true,
		},
		{
			name:          "envelope final page by total",
			page:          Page[item]{Items: three, Number: 0, TotalPages: 1},
			requestedSize: 3,
			want:          true,
		},
		{
			name:          "envelope more pages",
			page:          Page[item]{Items: three, Number: 0, TotalPages: 2, Last: boolPtr(false)},
			requestedSize: 3,
			want:          false,
		},
		{
			name:          "total without number uses requested page",
			page:          Page[item]{Items: three, Number: Unknown, TotalPages: 3},
			requestedPage: 2,
			requestedSize: 3,
			want:          true,
		},
		{
			name:          "short envelope page despite total",
			page:          Page[item]{Items: three, Number: 0, TotalPages: 5},
			requestedSize: 4,
			want:          true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.page.IsLast(tt.requestedPage, tt.requestedSize); got != tt.want {
				t.Errorf("IsLast(%d, %d) = %v, want %v", tt.requestedPage, tt.requestedSize, got, tt.want)
			}
		})
	}
}
