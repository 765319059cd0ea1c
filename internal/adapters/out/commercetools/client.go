// Package commercetools is the entity-store adapter. The commerce platform
// is the system of record for orders, drivers (customers with the driver
// custom type) and state definitions; this package wraps its REST API behind
// the core ports, translating HTTP outcomes into the fulfillment error
// taxonomy: 404 to ObjectNotFound, 409 to VersionConflict, transport failures
// to TransientNetwork.
package commercetools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"pizzatools/internal/pkg/errs"
)

// queryLimit caps page size for list endpoints. The boards show current
// work, not history, so one page is always enough.
const queryLimit = 100

// Config carries the platform coordinates for one project and store.
type Config struct {
	APIURL     string
	ProjectKey string
	StoreKey   string
}

// APIError is an unexpected platform response that maps to no specific
// fulfillment error.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform api returned status %d: %s", e.Status, e.Message)
}

// Client is the low-level platform HTTP client shared by the resource
// adapters. It owns authentication and error mapping; the adapters own
// resource paths and payload shapes.
type Client struct {
	httpClient *http.Client
	tokens     TokenProvider
	apiURL     string
	projectKey string
	storeKey   string
}

// NewClient creates a platform client. A nil httpClient falls back to
// http.DefaultClient.
func NewClient(httpClient *http.Client, tokens TokenProvider, cfg Config) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		tokens:     tokens,
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		projectKey: cfg.ProjectKey,
		storeKey:   cfg.StoreKey,
	}
}

// call describes one platform request. resource and resourceID feed the
// error mapping; version is the optimistic-concurrency token reported on
// conflict.
type call struct {
	method     string
	path       string
	query      url.Values
	body       any
	out        any
	resource   string
	resourceID string
	version    int64
}

func (c *Client) do(ctx context.Context, call call) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	endpoint := c.apiURL + "/" + c.projectKey + call.path
	if len(call.query) > 0 {
		endpoint += "?" + call.query.Encode()
	}

	var reqBody io.Reader
	if call.body != nil {
		payload, err := json.Marshal(call.body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, call.method, endpoint, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if call.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.NewTransientNetworkError(call.method+" "+call.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapStatus(resp, call)
	}

	if call.out != nil {
		if err := json.NewDecoder(resp.Body).Decode(call.out); err != nil {
			return fmt.Errorf("decode %s response: %w", call.path, err)
		}
	}
	return nil
}

func (c *Client) mapStatus(resp *http.Response, call call) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	message := platformMessage(raw)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errs.NewObjectNotFoundError(call.resource, call.resourceID)
	case resp.StatusCode == http.StatusConflict:
		return errs.NewVersionConflictError(call.resource, call.resourceID, call.version)
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusTooManyRequests:
		return errs.NewTransientNetworkError(
			call.method+" "+call.path,
			&APIError{Status: resp.StatusCode, Message: message},
		)
	default:
		return &APIError{Status: resp.StatusCode, Message: message}
	}
}

func platformMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return strings.TrimSpace(string(raw))
}
