// Package api is the typed HTTP client for the helpcab backend.
//
// All requests go through a single do() path that guarantees the
// loading-state contract: the RequestStarted hook is always balanced by
// exactly one RequestEnded, success or failure, and every failure fires
// RequestFailed once with a user-facing message before the error is
// returned to the caller.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/helpcab/pkg/debug"
)

// genericErrorMessage is shown when a failing response carries no
// "message" field.
const genericErrorMessage = "Erro na requisição"

// Hooks receives request lifecycle notifications. All fields are
// optional. Hooks are invoked from whatever goroutine runs the request,
// so implementations must be safe for concurrent use.
type Hooks struct {
	// RequestStarted fires before the request is sent.
	RequestStarted func()

	// RequestEnded fires exactly once per started request, after the
	// response (or failure) is fully processed.
	RequestEnded func()

	// RequestFailed fires once per failed request with the user-facing
	// error message, before the error reaches the caller.
	RequestFailed func(message string)
}

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the API root, e.g. "https://helpcab.onrender.com/api".
	// Required.
	BaseURL string

	// HTTPClient is used for all requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Hooks receives lifecycle notifications.
	Hooks Hooks
}

// Client is the helpcab API gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	hooks      Hooks
}

// NewClient creates a Client from the given configuration.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api: BaseURL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		hooks:      config.Hooks,
	}, nil
}

// APIError is a non-2xx backend response. Message is the payload's
// "message" field when present, else a generic message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// do executes a request against the backend. The path is relative to
// the base URL. A non-nil body is JSON-encoded. The response body is
// returned raw; non-2xx responses become *APIError.
func (client *Client) do(ctx context.Context, method, path string, requestBody any) (_ []byte, err error) {
	if client.hooks.RequestStarted != nil {
		client.hooks.RequestStarted()
	}
	defer func() {
		if err != nil && client.hooks.RequestFailed != nil {
			client.hooks.RequestFailed(userMessage(err))
		}
		if client.hooks.RequestEnded != nil {
			client.hooks.RequestEnded()
		}
	}()

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("api: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("api: creating request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	debug.Log("api: %s %s", method, path)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("api: reading response body: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, parseAPIError(response.StatusCode, body)
	}

	return body, nil
}

// parseAPIError builds an *APIError from a failing response body.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode, Message: genericErrorMessage}

	var wireError struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &wireError) == nil && wireError.Message != "" {
		apiError.Message = wireError.Message
	}

	return apiError
}

// userMessage extracts the notification text for a failed request.
func userMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// get decodes a GET response into result.
func (client *Client) get(ctx context.Context, path string, result any) error {
	body, err := client.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, result)
}

// post decodes a POST response into result (nil result discards it).
func (client *Client) post(ctx context.Context, path string, requestBody, result any) error {
	body, err := client.do(ctx, http.MethodPost, path, requestBody)
	if err != nil {
		return err
	}
	if result != nil {
		return json.Unmarshal(body, result)
	}
	return nil
}

// patch decodes a PATCH response into result (nil result discards it).
func (client *Client) patch(ctx context.Context, path string, requestBody, result any) error {
	body, err := client.do(ctx, http.MethodPatch, path, requestBody)
	if err != nil {
		return err
	}
	if result != nil {
		return json.Unmarshal(body, result)
	}
	return nil
}

// escape path-encodes a single URL segment.
func escape(segment string) string {
	return url.PathEscape(segment)
}
