// Package ratesclient is a small Go client for the ConstructHub Pro API.
// Authentication is handled centrally: every request reads the access token
// from the client's TokenStore, and a 401 triggers exactly one refresh and
// retry before the session is considered expired.
package ratesclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrSessionExpired is returned once the refresh token is rejected. The
// token store has been cleared by the time callers see it.
var ErrSessionExpired = errors.New("session expired, login required")

type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore

	// refreshMu makes concurrent 401s share a single refresh.
	refreshMu sync.Mutex

	onSessionExpired func()
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithTokenStore(store TokenStore) Option {
	return func(c *Client) {
		c.store = store
	}
}

// WithSessionExpiredHook registers a callback fired after a failed refresh
// clears the token store. Applications use it to redirect to login.
func WithSessionExpiredHook(hook func()) Option {
	return func(c *Client) {
		c.onSessionExpired = hook
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		store:      NewMemoryTokenStore(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// TokenStore exposes the client's store so sessions can be persisted.
func (c *Client) TokenStore() TokenStore {
	return c.store
}

func (c *Client) Signup(ctx context.Context, req Signup) (User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodPost, "/auth/signup", nil, req, &user, false); err != nil {
		return User{}, err
	}

	return user, nil
}

// Login authenticates and stores the returned token pair.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var resp struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
		User         User   `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, body, &resp, false); err != nil {
		return User{}, err
	}

	c.store.SetTokens(resp.Token, resp.RefreshToken)

	return resp.User, nil
}

// Logout revokes the server-side session and clears the local tokens.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, nil, true)
	c.store.Clear()

	return err
}

func (c *Client) Profile(ctx context.Context) (User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/profile", nil, nil, &user, true); err != nil {
		return User{}, err
	}

	return user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, patch UpdateProfile) (User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodPut, "/auth/profile", nil, patch, &user, true); err != nil {
		return User{}, err
	}

	return user, nil
}

func (c *Client) ListRates(ctx context.Context, opts ListOptions) (RatesPage, error) {
	var page RatesPage
	if err := c.doJSON(ctx, http.MethodGet, "/admin/daily-rates", opts.query(), nil, &page, true); err != nil {
		return RatesPage{}, err
	}

	return page, nil
}

func (c *Client) CustomerRates(ctx context.Context, opts ListOptions) (RatesPage, error) {
	var page RatesPage
	if err := c.doJSON(ctx, http.MethodGet, "/customer/daily-rates", opts.query(), nil, &page, true); err != nil {
		return RatesPage{}, err
	}

	return page, nil
}

func (c *Client) CreateRate(ctx context.Context, req CreateRate) (Rate, error) {
	var rate Rate
	if err := c.doJSON(ctx, http.MethodPost, "/admin/daily-rates", nil, req, &rate, true); err != nil {
		return Rate{}, err
	}

	return rate, nil
}

func (c *Client) UpdateRate(ctx context.Context, id uint, patch UpdateRate) (Rate, error) {
	var rate Rate
	path := fmt.Sprintf("/admin/daily-rates/%v", id)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, patch, &rate, true); err != nil {
		return Rate{}, err
	}

	return rate, nil
}

func (c *Client) DeleteRate(ctx context.Context, id uint) error {
	path := fmt.Sprintf("/admin/daily-rates/%v", id)

	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil, true)
}

// BulkAdjust applies a percentage adjustment to the selected rates and
// returns the refreshed full collection. Duplicate IDs are collapsed.
func (c *Client) BulkAdjust(ctx context.Context, ids []uint, percent float64, direction string) ([]Rate, error) {
	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	body := map[string]any{
		"rateIds":   unique,
		"percent":   percent,
		"direction": direction,
	}

	var resp struct {
		Rates []Rate `json:"rates"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/admin/daily-rates/bulk-update", nil, body, &resp, true); err != nil {
		return nil, err
	}

	return resp.Rates, nil
}

func (c *Client) RateHistory(ctx context.Context, id uint) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	path := fmt.Sprintf("/admin/daily-rates/%v/history", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &entries, true); err != nil {
		return nil, err
	}

	return entries, nil
}

// Export downloads the filtered view in the given format (csv, xlsx, pdf
// or json) and returns the raw file bytes.
func (c *Client) Export(ctx context.Context, format string, opts ListOptions) ([]byte, error) {
	q := opts.query()
	q.Set("format", format)

	resp, err := c.do(ctx, http.MethodGet, "/admin/daily-rates/export", q, nil, "", true)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read export body: %w", err)
	}

	return data, nil
}

// Import uploads spreadsheet bytes as a multipart form. The filename's
// extension decides how the server parses it.
func (c *Client) Import(ctx context.Context, filename string, file []byte) (ImportResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return ImportResult{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(file); err != nil {
		return ImportResult{}, fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return ImportResult{}, fmt.Errorf("close multipart writer: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/admin/daily-rates/import", nil, buf.Bytes(), mw.FormDataContentType(), true)
	if err != nil {
		return ImportResult{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	var result ImportResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ImportResult{}, fmt.Errorf("decode import response: %w", err)
	}

	return result, nil
}

// doJSON marshals body, performs the request and decodes a JSON response
// into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	var payload []byte
	contentType := ""
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}

		contentType = "application/json"
	}

	resp, err := c.do(ctx, method, path, query, payload, contentType, authed)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}

	return nil
}

// do sends the request, attaching the bearer token when authed. On a 401 it
// refreshes the token pair and retries exactly once. A second 401, or a
// failed refresh, clears the store and reports an expired session.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, contentType string, authed bool) (*http.Response, error) {
	resp, err := c.send(ctx, method, path, query, body, contentType, authed)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized || !authed {
		return c.checkStatus(resp)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	if err := c.refreshTokens(ctx); err != nil {
		c.expireSession()

		return nil, err
	}

	retry, err := c.send(ctx, method, path, query, body, contentType, authed)
	if err != nil {
		return nil, err
	}

	if retry.StatusCode == http.StatusUnauthorized {
		apiErr := decodeAPIError(retry)
		c.expireSession()

		return nil, apiErr
	}

	return c.checkStatus(retry)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body []byte, contentType string, authed bool) (*http.Response, error) {
	u := c.baseURL + "/api/v1" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if authed {
		if token := c.store.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%v %v: %w", method, path, err)
	}

	return resp, nil
}

func (c *Client) refreshTokens(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	refreshToken := c.store.RefreshToken()
	if refreshToken == "" {
		return ErrSessionExpired
	}

	body := map[string]string{"refreshToken": refreshToken}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal refresh request: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, "/auth/refresh-token", nil, payload, "application/json", false)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ErrSessionExpired
	}

	var pair struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}

	c.store.SetTokens(pair.Token, pair.RefreshToken)

	return nil
}

func (c *Client) expireSession() {
	c.store.Clear()
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

func (c *Client) checkStatus(resp *http.Response) (*http.Response, error) {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return resp, nil
	}

	return nil, decodeAPIError(resp)
}

func decodeAPIError(resp *http.Response) *APIError {
	defer func() { _ = resp.Body.Close() }()

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	apiErr.StatusCode = resp.StatusCode

	return apiErr
}
