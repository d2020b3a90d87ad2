package mhihvac

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const groupDataOK = `{"GetResGroupData":{"FloorData":[{"FloorNo":"1","GroupData":{"test":"data"}}]}}`
const groupDataExpired = `{"GetResGroupData":{"FloorData":[{"FloorNo":"-1"}]}}`

func TestRawGroupData_Success(t *testing.T) {
	var gotBody, gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login.asp":
			w.Header().Set("Set-Cookie", "session=123")
			w.WriteHeader(http.StatusFound)
		case "/json/group_list_json.asp":
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
			gotCookie = r.Header.Get("Cookie")
			_, _ = io.WriteString(w, groupDataOK)
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	result, err := c.RawGroupData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"test": "data"}, result)
	assert.Equal(t, groupDataRequest, gotBody)
	// bootstrap login ran and its cookie was presented
	assert.Equal(t, "session=123", gotCookie)
	assert.Equal(t, "session=123", c.SessionCookie())
}

func TestRawGroupData_MissingGroupData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"GetResGroupData":{"FloorData":[{"FloorNo":"1"}]}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	c.cookie = "session=123"

	result, err := c.RawGroupData(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestRawGroupData_ExpiredSessionReauths(t *testing.T) {
	var loginCalls, dataCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login.asp":
			loginCalls++
			w.Header().Set("Set-Cookie", "session=fresh")
			w.WriteHeader(http.StatusFound)
		case "/json/group_list_json.asp":
			dataCalls++
			if r.Header.Get("Cookie") == "session=stale" {
				_, _ = io.WriteString(w, groupDataExpired)
				return
			}
			_, _ = io.WriteString(w, groupDataOK)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	c.cookie = "session=stale"

	result, err := c.RawGroupData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"test": "data"}, result)
	assert.Equal(t, 1, loginCalls)
	assert.Equal(t, 2, dataCalls)
	assert.Equal(t, "session=fresh", c.SessionCookie())
}

func TestRawGroupData_RetriesExhausted(t *testing.T) {
	var loginCalls, dataCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login.asp":
			loginCalls++
			w.Header().Set("Set-Cookie", "session=fresh")
			w.WriteHeader(http.StatusFound)
		case "/json/group_list_json.asp":
			dataCalls++
			_, _ = io.WriteString(w, groupDataExpired)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	c.cookie = "session=stale"

	_, err := c.RawGroupData(context.Background())
	apiErr := &APICallFailedError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 3, loginCalls)
	assert.Equal(t, 4, dataCalls)
}

func TestRawGroupData_MalformedJSON(t *testing.T) {
	var loginCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login.asp":
			loginCalls++
			w.Header().Set("Set-Cookie", "session=123")
			w.WriteHeader(http.StatusFound)
		default:
			_, _ = io.WriteString(w, `{"GetResGroupData":`)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.RawGroupData(context.Background())
	require.Error(t, err)
	// decode errors are not expiry, so no reauth beyond the bootstrap login
	assert.Equal(t, 1, loginCalls)
}
