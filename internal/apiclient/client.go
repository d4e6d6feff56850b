// Package apiclient talks to the Quran data API: authentication, account and
// takhtit provisioning, and multipart JSON imports.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"mushafctl/internal/config"
	"mushafctl/internal/password"
)

// Client issues synchronous calls against one API base URL. There are no
// retries; the transport timeout is the only deadline.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Stdout     io.Writer
}

// New builds a Client with a 30 second timeout and status output to stdout.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Stdout:     os.Stdout,
	}
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

// Login exchanges credentials for a session token at /auth/login/. A 200
// response without a token field returns ("", nil): the caller reports it as
// a failed login but the process does not abort.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/auth/login/"), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read login response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Operation: "login", Status: resp.StatusCode, Body: string(body)}
	}

	var response struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	return response.Token, nil
}

// CreateUser provisions an account with a generated one-time password and
// returns its identifier. The password satisfies the API's two-field
// confirmation payload and is never kept.
func (c *Client) CreateUser(ctx context.Context, token string, profile config.Profile) (string, error) {
	generated, err := password.Generate(password.DefaultLength)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(map[string]string{
		"username":   profile.Username,
		"password":   generated,
		"password2":  generated,
		"email":      profile.Email,
		"first_name": profile.FirstName,
		"last_name":  profile.LastName,
	})
	if err != nil {
		return "", fmt.Errorf("marshal user request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/users/"), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create user request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Token "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read user response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return "", &APIError{Operation: "create user", Status: resp.StatusCode, Body: string(body)}
	}

	var response struct {
		UUID string `json:"uuid"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("decode user response: %w", err)
	}
	if response.UUID == "" {
		return "", fmt.Errorf("user created but response carried no uuid")
	}

	fmt.Fprintf(c.Stdout, "created user %s (%s)\n", profile.Username, response.UUID)
	return response.UUID, nil
}

// Mushaf is one entry of the /mushafs/ listing.
type Mushaf struct {
	UUID      string `json:"uuid"`
	ShortName string `json:"short_name"`
	Name      string `json:"name"`
}

// ListMushafs fetches the available mushaf resources.
func (c *Client) ListMushafs(ctx context.Context, token string) ([]Mushaf, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/mushafs/"), nil)
	if err != nil {
		return nil, fmt.Errorf("create mushaf list request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Token "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch mushafs: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read mushaf list: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Operation: "fetch mushafs", Status: resp.StatusCode, Body: string(body)}
	}

	var mushafs []Mushaf
	if err := json.Unmarshal(body, &mushafs); err != nil {
		return nil, fmt.Errorf("decode mushaf list: %w", err)
	}
	return mushafs, nil
}

// FindMushaf scans a listing for the entry with the given short name.
func FindMushaf(mushafs []Mushaf, shortName string) (Mushaf, error) {
	for _, m := range mushafs {
		if m.ShortName == shortName {
			return m, nil
		}
	}
	return Mushaf{}, fmt.Errorf("no mushaf with short_name %q on this server", shortName)
}

// CreateTakhtit links an account to a mushaf at /takhtits/. A 201 response
// without a uuid field returns ("", nil); the caller warns and persists
// nothing.
func (c *Client) CreateTakhtit(ctx context.Context, token, mushafUUID, accountUUID string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"mushaf_uuid":  mushafUUID,
		"account_uuid": accountUUID,
	})
	if err != nil {
		return "", fmt.Errorf("marshal takhtit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/takhtits/"), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create takhtit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Token "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create takhtit: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read takhtit response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return "", &APIError{Operation: "create takhtit", Status: resp.StatusCode, Body: string(body)}
	}

	var response struct {
		UUID string `json:"uuid"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("decode takhtit response: %w", err)
	}
	return response.UUID, nil
}
