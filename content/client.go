// Package content is a thin client for the Sanity query API plus the typed
// post schema the rest of the site renders.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Config identifies a Sanity project and controls how it is queried.
type Config struct {
	ProjectID  string
	Dataset    string // default "production"
	APIVersion string // default "2023-03-01"
	UseCDN     bool   // query apicdn.sanity.io instead of the live API
	Token      string // optional read token; forces the live API

	// BaseURL overrides the computed API host, mainly for tests.
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration // per-request timeout (default 15s)
}

func (c *Config) setDefaults() {
	if c.Dataset == "" {
		c.Dataset = "production"
	}
	if c.APIVersion == "" {
		c.APIVersion = "2023-03-01"
	}
	c.APIVersion = strings.TrimPrefix(c.APIVersion, "v")
	if c.Timeout == 0 {
		c.Timeout = 15 * time.Second
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
}

// Client executes GROQ queries against one dataset.
type Client struct {
	cfg      Config
	endpoint string
}

// New validates cfg and returns a ready client.
func New(cfg Config) (*Client, error) {
	cfg.setDefaults()
	if cfg.ProjectID == "" && cfg.BaseURL == "" {
		return nil, errors.New("content: ProjectID is required")
	}
	base := cfg.BaseURL
	if base == "" {
		host := "api.sanity.io"
		if cfg.UseCDN && cfg.Token == "" {
			host = "apicdn.sanity.io"
		}
		base = fmt.Sprintf("https://%s.%s", cfg.ProjectID, host)
	}
	base = strings.TrimSuffix(base, "/")
	return &Client{
		cfg:      cfg,
		endpoint: fmt.Sprintf("%s/v%s/data/query/%s", base, cfg.APIVersion, url.PathEscape(cfg.Dataset)),
	}, nil
}

// ProjectID returns the configured project, used by image URL building.
func (c *Client) ProjectID() string { return c.cfg.ProjectID }

// Dataset returns the configured dataset.
func (c *Client) Dataset() string { return c.cfg.Dataset }

type queryResponse struct {
	Result json.RawMessage `json:"result"`
	MS     int             `json:"ms"`
}

type apiError struct {
	Error struct {
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"error"`
	Message string `json:"message"`
}

// Query runs query with params and returns the raw "result" member.
// Param values are JSON-encoded and sent as $name arguments.
func (c *Client) Query(ctx context.Context, query string, params map[string]any) (json.RawMessage, error) {
	u, err := c.queryURL(query, params)
	if err != nil {
		return nil, &FetchError{Op: "encode params", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Op: "build request", Err: errors.WithStack(err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, &FetchError{Op: "query", Err: errors.Wrap(err, "request failed")}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Op: "read", StatusCode: resp.StatusCode, Err: errors.Wrap(err, "read body")}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Op: "query", StatusCode: resp.StatusCode, Err: errors.New(describeAPIError(body, resp.Status))}
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, &FetchError{Op: "decode", StatusCode: resp.StatusCode, Err: errors.Wrap(err, "malformed response")}
	}
	if len(qr.Result) == 0 {
		return nil, &FetchError{Op: "decode", StatusCode: resp.StatusCode, Err: errors.New("response has no result member")}
	}
	return qr.Result, nil
}

// QueryInto runs query and decodes the result into T.
func QueryInto[T any](ctx context.Context, c *Client, query string, params map[string]any) (T, error) {
	var out T
	raw, err := c.Query(ctx, query, params)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &FetchError{Op: "decode", Err: errors.Wrapf(err, "decode result into %T", out)}
	}
	return out, nil
}

func (c *Client) queryURL(query string, params map[string]any) (string, error) {
	v := url.Values{}
	v.Set("query", query)
	for name, val := range params {
		b, err := json.Marshal(val)
		if err != nil {
			return "", errors.Wrapf(err, "param %q", name)
		}
		v.Set("$"+strings.TrimPrefix(name, "$"), string(b))
	}
	return c.endpoint + "?" + v.Encode(), nil
}

func describeAPIError(body []byte, status string) string {
	var ae apiError
	if err := json.Unmarshal(body, &ae); err == nil {
		if ae.Error.Description != "" {
			return status + ": " + ae.Error.Description
		}
		if ae.Message != "" {
			return status + ": " + ae.Message
		}
	}
	return status
}
