// Package client talks to the study-abroad API on behalf of a single user.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mbolis/study-abroad/httpx"
	"github.com/mbolis/study-abroad/model"
	"github.com/mbolis/study-abroad/onboarding"
)

var ErrNotLoggedIn = errors.New("client: not logged in")

type Client struct {
	BaseURL string
	HTTP    *http.Client

	token string
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    httpClient,
	}
}

// Login obtains a bearer token used by every later call.
func (c *Client) Login(ctx context.Context, username, password string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/login", nil)
	if err != nil {
		return errors.Wrap(err, "login.request")
	}
	req.SetBasicAuth(username, password)

	var grant httpx.TokenResponse
	if err = c.send(req, &grant); err != nil {
		return errors.Wrap(err, "login")
	}
	if grant.AccessToken == "" {
		return errors.New("login: no access token in response")
	}
	c.token = grant.AccessToken
	return nil
}

// Submit saves the questionnaire answers. A response without success set is
// reported as an error.
func (c *Client) Submit(ctx context.Context, p onboarding.Payload) error {
	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/onboarding/save", p, &result); err != nil {
		return errors.Wrap(err, "submit")
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "server did not accept the answers"
		}
		return errors.New("submit: " + msg)
	}
	return nil
}

func (c *Client) Matches(ctx context.Context, page, perPage int) (model.MatchPage, error) {
	query := url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}

	var result model.MatchPage
	err := c.call(ctx, http.MethodGet, "/api/matches?"+query.Encode(), nil, &result)
	return result, errors.Wrap(err, "matches")
}

// Clear forgets the user's previous answers and matches.
func (c *Client) Clear(ctx context.Context) error {
	return errors.Wrap(c.call(ctx, http.MethodPost, "/api/onboarding/clear", nil, nil), "clear")
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	if c.token == "" {
		return ErrNotLoggedIn
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if len(bytes.TrimSpace(msg)) == 0 {
			return errors.Errorf("%s %s: %s", req.Method, req.URL.Path, resp.Status)
		}
		return errors.Errorf("%s %s: %s: %s", req.Method, req.URL.Path, resp.Status, bytes.TrimSpace(msg))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "decode response")
}
