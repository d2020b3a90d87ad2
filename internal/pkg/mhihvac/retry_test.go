package mhihvac

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoginServer(t *testing.T, loginCalls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login.asp", r.URL.Path)
		*loginCalls++
		w.Header().Set("Set-Cookie", fmt.Sprintf("session=%d", *loginCalls))
		w.WriteHeader(http.StatusFound)
	}))
}

func TestWithReauth_BudgetExhausted(t *testing.T) {
	for _, maxRetries := range []int{0, 1, 3, 5} {
		t.Run(fmt.Sprintf("max_retries_%d", maxRetries), func(t *testing.T) {
			var loginCalls int
			srv := newLoginServer(t, &loginCalls)
			defer srv.Close()

			c := newTestClient(t, srv)
			c.maxRetries = maxRetries

			var attempts int
			_, err := withReauth(context.Background(), c, func(context.Context) (string, error) {
				attempts++
				return "", errSessionExpired
			})

			apiErr := &APICallFailedError{}
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, maxRetries+1, attempts)
			assert.Equal(t, maxRetries, loginCalls)
		})
	}
}

func TestWithReauth_SucceedsWithinBudget(t *testing.T) {
	for _, expiries := range []int{0, 1, 2, 3} {
		t.Run(fmt.Sprintf("expiries_%d", expiries), func(t *testing.T) {
			var loginCalls int
			srv := newLoginServer(t, &loginCalls)
			defer srv.Close()

			c := newTestClient(t, srv)

			var attempts int
			result, err := withReauth(context.Background(), c, func(context.Context) (string, error) {
				attempts++
				if attempts <= expiries {
					return "", errSessionExpired
				}
				return "ok", nil
			})

			require.NoError(t, err)
			assert.Equal(t, "ok", result)
			assert.Equal(t, expiries+1, attempts)
			assert.Equal(t, expiries, loginCalls)
			if expiries > 0 {
				// the freshly minted cookie must be the one stored
				assert.Equal(t, fmt.Sprintf("session=%d", expiries), c.SessionCookie())
			}
		})
	}
}

func TestWithReauth_OtherErrorsPropagate(t *testing.T) {
	var loginCalls int
	srv := newLoginServer(t, &loginCalls)
	defer srv.Close()

	c := newTestClient(t, srv)

	boom := errors.New("boom")
	var attempts int
	_, err := withReauth(context.Background(), c, func(context.Context) (string, error) {
		attempts++
		return "", boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
	assert.Zero(t, loginCalls)
}

func TestWithReauth_LoginFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)

	var attempts int
	_, err := withReauth(context.Background(), c, func(context.Context) (string, error) {
		attempts++
		return "", errSessionExpired
	})

	loginErr := &LoginFailedError{}
	require.ErrorAs(t, err, &loginErr)
	assert.Equal(t, http.StatusForbidden, loginErr.Status)
	assert.Equal(t, 1, attempts)
}
