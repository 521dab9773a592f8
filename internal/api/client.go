package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mooncookies-cli/internal/model"
)

// Client talks to the Moon Base resource API over HTTP.
//
// It is constructed explicitly and passed to whoever needs it; nothing in
// this package keeps global state, so tests can substitute a fake server
// (or a fake implementation of the narrow interfaces the consumers define).
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Error is a decoded API error response (status >= 400).
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if strings.TrimSpace(e.Message) != "" {
		return e.Message
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetToken installs the bearer token used on subsequent calls.
func (c *Client) SetToken(token string) { c.token = strings.TrimSpace(token) }

func (c *Client) Token() string { return c.token }

// Health probes backend reachability. Performed once at startup; the
// result only drives the connectivity indicator.
func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/api/health", nil, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", payload, &resp); err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.Token, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.token = ""
	return err
}

func (c *Client) Me(ctx context.Context) (model.User, error) {
	var u model.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Signup registers a new customer account. The server is the authority on
// duplicate emails; we just surface its error.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	payload := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     string(model.RoleCustomer),
	}
	return c.doJSON(ctx, http.MethodPost, "/api/collections/users", payload, nil)
}

// ListQuery shapes a collection read.
type ListQuery struct {
	Include []string
	// SortDesc orders by createdAt descending when true.
	SortDesc bool
}

func (c *Client) ListCookies(ctx context.Context, q ListQuery) ([]model.Cookie, error) {
	v := url.Values{}
	if len(q.Include) > 0 {
		v.Set("include", strings.Join(q.Include, ","))
	}
	if q.SortDesc {
		v.Set("sort", "-createdAt")
	}
	path := "/api/collections/cookies"
	if enc := v.Encode(); enc != "" {
		path += "?" + enc
	}
	var resp struct {
		Data []model.Cookie `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Payload is a cookie write. AttachmentPath, when set, switches the
// request to multipart so the file rides along under the "photo" field.
type Payload struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Price        float64            `json:"price"`
	Inventory    int                `json:"inventory"`
	BakingStatus model.BakingStatus `json:"bakingStatus"`
	OwnerID      string             `json:"ownerId"`

	AttachmentPath string `json:"-"`
}

func (c *Client) CreateCookie(ctx context.Context, p Payload) (model.Cookie, error) {
	return c.writeCookie(ctx, http.MethodPost, "/api/collections/cookies", p)
}

func (c *Client) UpdateCookie(ctx context.Context, id string, p Payload) (model.Cookie, error) {
	return c.writeCookie(ctx, http.MethodPut, "/api/collections/cookies/"+url.PathEscape(id), p)
}

func (c *Client) DeleteCookie(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/collections/cookies/"+url.PathEscape(id), nil, nil)
}

func (c *Client) writeCookie(ctx context.Context, method, path string, p Payload) (model.Cookie, error) {
	var out model.Cookie
	if strings.TrimSpace(p.AttachmentPath) == "" {
		if err := c.doJSON(ctx, method, path, p, &out); err != nil {
			return model.Cookie{}, err
		}
		return out, nil
	}
	if err := c.doMultipart(ctx, method, path, p, &out); err != nil {
		return model.Cookie{}, err
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// doMultipart sends the scalar fields as a JSON part named "data" plus the
// attachment file under "photo".
func (c *Client) doMultipart(ctx context.Context, method, path string, p Payload, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := mw.WriteField("data", string(data)); err != nil {
		return err
	}

	f, err := os.Open(p.AttachmentPath)
	if err != nil {
		return err
	}
	defer f.Close()

	part, err := mw.CreateFormFile("photo", filepath.Base(p.AttachmentPath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := strings.TrimSpace(errResp.Error)
		if msg == "" {
			msg = resp.Status
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
