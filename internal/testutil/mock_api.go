// Package testutil provides testing utilities for the artist pager.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Sternrassler/artist-pager/pkg/artist"
)

// Shape selects how the mock serves a page.
type Shape int

const (
	// Envelope serves {"content": [...], "number", "totalPages", "size", "last"}.
	Envelope Shape = iota

	// Bare serves a plain JSON array.
	Bare
)

// MockResponse overrides the response for the next matching requests.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockAPI is a configurable artist collection server for testing.
type MockAPI struct {
	server *httptest.Server
	mu     sync.RWMutex

	artists     []artist.Record
	shape       Shape
	defaultSize int
	overrides   []MockResponse
	gate        chan struct{}

	// Tracking
	RequestCount int
	LastQuery    url.Values
	LastHeader   http.Header
}

// NewMockAPI creates a mock serving the given artists as envelope pages of
// defaultSize items when the request carries no size.
func NewMockAPI(artists []artist.Record, defaultSize int) *MockAPI {
	mock := &MockAPI{
		artists:     artists,
		defaultSize: defaultSize,
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server. A held gate is released first.
func (m *MockAPI) Close() {
	m.Release()
	m.server.Close()
}

// SetShape switches between envelope and bare array responses.
func (m *MockAPI) SetShape(shape Shape) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shape = shape
}

// QueueResponse makes the next request return resp instead of a page.
// Queued responses are consumed in order.
func (m *MockAPI) QueueResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides = append(m.overrides, resp)
}

// Hold makes requests block until Release is called.
func (m *MockAPI) Hold() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gate == nil {
		m.gate = make(chan struct{})
	}
}

// Release unblocks requests held by Hold.
func (m *MockAPI) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gate != nil {
		close(m.gate)
		m.gate = nil
	}
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetLastQuery returns the query of the most recent request.
func (m *MockAPI) GetLastQuery() url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastQuery
}

func (m *MockAPI) handle(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.RequestCount++
	m.LastQuery = r.URL.Query()
	m.LastHeader = r.Header.Clone()
	gate := m.gate
	var override *MockResponse
	if len(m.overrides) > 0 {
		override = &m.overrides[0]
		m.overrides = m.overrides[1:]
	}
	shape := m.shape
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	if override != nil {
		if override.Delay > 0 {
			time.Sleep(override.Delay)
		}
		for key, value := range override.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(override.StatusCode)
		if override.Body != "" {
			_, _ = w.Write([]byte(override.Body))
		}
		return
	}

	query := r.URL.Query()
	page, err := intParam(query, "page", 0)
	if err != nil || page < 0 {
		http.Error(w, `{"error":"invalid page"}`, http.StatusBadRequest)
		return
	}
	size, err := intParam(query, "size", m.defaultSize)
	if err != nil || size <= 0 {
		http.Error(w, `{"error":"invalid size"}`, http.StatusBadRequest)
		return
	}

	matched := m.filter(query)
	totalPages := (len(matched) + size - 1) / size

	from := page * size
	if from > len(matched) {
		from = len(matched)
	}
	to := from + size
	if to > len(matched) {
		to = len(matched)
	}
	content := matched[from:to]

	var body any = content
	if shape == Envelope {
		body = map[string]any{
			"content":       content,
			"number":        page,
			"size":          size,
			"totalPages":    totalPages,
			"totalElements": len(matched),
			"first":         page == 0,
			"last":          page+1 >= totalPages,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}

// filter applies the name/nickname substring and birthDate equality filters.
func (m *MockAPI) filter(query url.Values) []artist.Record {
	name := strings.ToLower(query.Get(artist.KeyName))
	nickname := strings.ToLower(query.Get(artist.KeyNickname))
	birthDate := query.Get(artist.KeyBirthDate)

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]artist.Record, 0, len(m.artists))
	for _, a := range m.artists {
		if name != "" && !strings.Contains(strings.ToLower(a.Name), name) {
			continue
		}
		if nickname != "" && !strings.Contains(strings.ToLower(a.Nickname), nickname) {
			continue
		}
		if birthDate != "" && string(a.BirthDate) != birthDate {
			continue
		}
		out = append(out, a)
	}
	return out
}

func intParam(query url.Values, key string, def int) (int, error) {
	raw := query.Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// Artists returns n generated artists with IDs 1..n.
func Artists(n int) []artist.Record {
	out := make([]artist.Record, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, artist.Record{
			ID:        artist.ID(strconv.Itoa(i)),
			Name:      fmt.Sprintf("Artist %d", i),
			Nickname:  fmt.Sprintf("artist-%d", i),
			BirthDate: artist.BirthDate(fmt.Sprintf("19%02d-01-01", i%100)),
		})
	}
	return out
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewMalformedResponse creates a 200 response that is not a page.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `<html><body>Session expired</body></html>`,
		Headers: map[string]string{
			"Content-Type": "text/html; charset=utf-8",
		},
	}
}
