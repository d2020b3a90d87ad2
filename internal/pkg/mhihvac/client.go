package mhihvac

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anicoll/mhihvac-integration/internal/pkg/config"
	"go.uber.org/zap"
)

const (
	userAgent      = "mhihvac-integration"
	requestTimeout = 10 * time.Second
)

// Client talks to the local API of an MHI HVAC controller. The controller
// hands out a session cookie on login and silently invalidates it; the
// client re-authenticates and retries transparently, so callers never see
// an expired session.
type Client struct {
	username    string
	password    string
	apiLoginURL string
	apiURL      string

	httpClient *http.Client
	ownsClient bool
	cookie     string
	maxRetries int
	logger     *zap.Logger
}

// New creates a client with its own HTTP transport. The transport is owned
// by the client and released by CloseSession.
func New(cfg *config.HvacConfig) *Client {
	c := NewWithClient(cfg, &http.Client{Timeout: requestTimeout})
	c.ownsClient = true
	return c
}

// NewWithClient creates a client on top of an externally owned
// http.Client. CloseSession will never close it.
func NewWithClient(cfg *config.HvacConfig, httpClient *http.Client) *Client {
	return &Client{
		username:    cfg.Username,
		password:    cfg.Password,
		apiLoginURL: "http://" + cfg.Host + "/login.asp",
		apiURL:      "http://" + cfg.Host + "/json/group_list_json.asp",
		httpClient:  httpClient,
		maxRetries:  cfg.MaxRetries,
		logger:      zap.L(),
	}
}

// SessionCookie returns the cookie of the current session, empty if no
// login has succeeded yet.
func (c *Client) SessionCookie() string {
	return c.cookie
}

// CloseSession drops the session cookie and, if the HTTP transport was
// created internally, releases it. An externally supplied transport is
// left untouched.
func (c *Client) CloseSession() {
	if c.httpClient != nil && c.ownsClient {
		c.logger.Debug("closing http client")
		c.httpClient.CloseIdleConnections()
		c.httpClient = nil
	}
	c.cookie = ""
}

// Login performs the login handshake and returns the session cookie. The
// controller signals success with a 302 carrying Set-Cookie; redirects are
// not followed.
func (c *Client) Login(ctx context.Context) (string, error) {
	return c.login(ctx)
}

func (c *Client) login(ctx context.Context) (string, error) {
	if c.httpClient == nil {
		return "", ErrSessionNotInitialized
	}
	form := url.Values{
		"Id":       []string{c.username},
		"Password": []string{c.password},
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiLoginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	setHeaders(req, "")

	// Shallow copy so disabling redirects does not leak into an
	// externally owned client.
	httpClient := *c.httpClient
	httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		c.logger.Error("login error", zap.Error(err))
		return "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusFound {
		return "", &LoginFailedError{Status: resp.StatusCode}
	}
	cookie := resp.Header.Get("Set-Cookie")
	if cookie == "" {
		return "", ErrNoSessionCookie
	}
	c.logger.Debug("logged in", zap.String("session_cookie", cookie))
	return cookie, nil
}

// post issues a session-bound request and returns the raw status and body.
func (c *Client) post(ctx context.Context, body string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	setHeaders(req, c.cookie)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, respBody, nil
}

func setHeaders(req *http.Request, cookie string) {
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
}
