package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Sternrassler/artist-pager/pkg/artist"
	"github.com/Sternrassler/artist-pager/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New(DefaultConfig(server.URL, "ArtistPagerTest/1.0"))
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		errorMsg string
	}{
		{
			name:   "valid config",
			config: DefaultConfig("http://localhost:8080", "TestApp/1.0"),
		},
		{
			name:     "empty base url",
			config:   Config{UserAgent: "TestApp/1.0"},
			errorMsg: "base url is required",
		},
		{
			name:     "empty user agent",
			config:   Config{BaseURL: "http://localhost:8080"},
			errorMsg: "user-agent is required",
		},
		{
			name:     "relative base url",
			config:   Config{BaseURL: "/artists", UserAgent: "TestApp/1.0"},
			errorMsg: `base url must be absolute (got "/artists")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.config)
			if tt.errorMsg != "" {
				require.Error(t, err)
				assert.Equal(t, tt.errorMsg, err.Error())
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestNew_DefaultsPath(t *testing.T) {
	c, err := New(Config{BaseURL: "http://localhost:8080/museum/", UserAgent: "TestApp/1.0"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/museum/api/artists", c.Endpoint())
}

func TestBuildURL(t *testing.T) {
	c, err := New(Config{BaseURL: "http://localhost:8080", Path: "/artists/more", UserAgent: "TestApp/1.0"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  Request
		want url.Values
	}{
		{
			name: "page only",
			req:  Request{Page: 0},
			want: url.Values{"page": {"0"}},
		},
		{
			name: "page and size",
			req:  Request{Page: 2, Size: 3},
			want: url.Values{"page": {"2"}, "size": {"3"}},
		},
		{
			name: "filters are encoded",
			req: Request{
				Page:   1,
				Size:   10,
				Filter: artist.Filter{Name: "Francisco de Goya", Nickname: "A&B=C", BirthDate: "1746-03-30"},
			},
			want: url.Values{
				"page":      {"1"},
				"size":      {"10"},
				"name":      {"Francisco de Goya"},
				"nickname":  {"A&B=C"},
				"birthDate": {"1746-03-30"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := c.BuildURL(tt.req)
			require.NoError(t, err)

			u, err := url.Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, "/artists/more", u.Path)
			assert.Equal(t, tt.want, u.Query())
		})
	}
}

func TestFetchPage_Envelope(t *testing.T) {
	var gotQuery url.Values
	var gotHeader http.Header

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotHeader = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"id":1,"name":"Francisco de Goya","nickname":"Goya"}],"number":0,"totalPages":1}`))
	})

	page, err := c.FetchPage(context.Background(), Request{Page: 0, Size: 3, Filter: artist.Filter{Name: "Goya"}})
	require.NoError(t, err)

	assert.Equal(t, pagination.ShapeEnvelope, page.Shape)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Goya", page.Items[0].Nickname)
	assert.Equal(t, 0, page.Number)
	assert.Equal(t, 1, page.TotalPages)

	assert.Equal(t, "0", gotQuery.Get("page"))
	assert.Equal(t, "3", gotQuery.Get("size"))
	assert.Equal(t, "Goya", gotQuery.Get("name"))
	assert.Equal(t, "ArtistPagerTest/1.0", gotHeader.Get("User-Agent"))
	assert.Equal(t, "application/json", gotHeader.Get("Accept"))
}

func TestFetchPage_Bare(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"nickname":"a"},{"id":2,"nickname":"b"}]`))
	})

	page, err := c.FetchPage(context.Background(), Request{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, pagination.ShapeBare, page.Shape)
	assert.Equal(t, 2, page.Len())
}

func TestFetchPage_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantClass  ErrorClass
		wantStatus int
	}{
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       `{"error":"boom"}`,
			wantClass:  ErrorClassServer,
			wantStatus: 500,
		},
		{
			name:       "not found",
			status:     http.StatusNotFound,
			wantClass:  ErrorClassClient,
			wantStatus: 404,
		},
		{
			name:       "malformed body",
			status:     http.StatusOK,
			body:       `<html>login</html>`,
			wantClass:  ErrorClassMalformed,
			wantStatus: 200,
		},
		{
			name:       "envelope without content",
			status:     http.StatusOK,
			body:       `{"items":[]}`,
			wantClass:  ErrorClassMalformed,
			wantStatus: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			page, err := c.FetchPage(context.Background(), Request{Page: 0, Size: 3})
			require.Error(t, err)
			assert.Nil(t, page)

			var reqErr *RequestError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, tt.wantClass, reqErr.ErrorClass)
			assert.Equal(t, tt.wantStatus, reqErr.StatusCode)
			assert.Equal(t, tt.wantClass, ClassOf(err))
			assert.Equal(t, tt.wantStatus, StatusCodeOf(err))
		})
	}
}

func TestFetchPage_MalformedWrapsSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := c.FetchPage(context.Background(), Request{})
	assert.ErrorIs(t, err, pagination.ErrMalformed)
}

func TestFetchPage_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	c, err := New(DefaultConfig(baseURL, "TestApp/1.0"))
	require.NoError(t, err)

	_, err = c.FetchPage(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, ErrorClassNetwork, ClassOf(err))
	assert.Equal(t, 0, StatusCodeOf(err))
}

func TestFetchPage_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchPage(ctx, Request{})
	require.Error(t, err)
	assert.Equal(t, ErrorClassNetwork, ClassOf(err))
	assert.ErrorIs(t, err, context.Canceled)
}
