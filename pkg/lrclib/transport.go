package lrclib

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// apiError is the JSON error body returned by LRCLIB. Older deployments
// report the status as statusCode/error, newer ones as code/name.
type apiError struct {
	Code       int    `json:"code"`
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	ErrorName  string `json:"error"`
	Message    string `json:"message"`
}

// request describes a single API call.
type request struct {
	method   string
	endpoint string
	query    url.Values
	body     interface{}
	headers  map[string]string
}

// call makes an HTTP request to the LRCLIB API.
//
// It handles:
// - Request construction with proper headers
// - JSON encoding of the request body
// - Status code checking against the expected status
// - JSON decoding of the response into out (when out is non-nil)
//
// Transport failures are returned as *NetworkError and API failures as
// *Error. Nothing is retried.
func (c *Client) call(ctx context.Context, r request, expect int, out interface{}) error {
	op := r.method + " " + r.endpoint

	reqURL := c.baseURL + strings.TrimPrefix(r.endpoint, "/")
	if len(r.query) > 0 {
		reqURL += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("lrclib: failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, reqURL, body)
	if err != nil {
		return fmt.Errorf("lrclib: failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	c.logDebugf("lrclib: calling %s", op)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	data, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	status := resp.StatusCode
	if status == expect {
		// Some proxies answer 200 with the error in the body
		if s := bodyStatus(data); s >= 400 {
			status = s
		}
	}
	if status != expect {
		apiErr := decodeError(status, data)
		c.logDebugf("lrclib: %s failed: %v", op, apiErr)
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("lrclib: failed to parse %s response: %w", op, err)
		}
	}

	c.logDebugf("lrclib: %s succeeded", op)
	return nil
}

// bodyStatus returns the error status carried in a JSON error body, or 0.
func bodyStatus(data []byte) int {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return 0
	}
	var body apiError
	if err := json.Unmarshal(trimmed, &body); err != nil {
		return 0
	}
	if body.StatusCode != 0 {
		return body.StatusCode
	}
	return body.Code
}

// decodeError builds an *Error from a non-successful response.
func decodeError(status int, data []byte) *Error {
	e := &Error{StatusCode: status, Message: http.StatusText(status)}

	var body apiError
	if err := json.Unmarshal(data, &body); err != nil {
		if text := strings.TrimSpace(string(data)); text != "" && len(text) < 512 {
			e.Message = text
		}
		return e
	}

	if body.Name != "" {
		e.Name = body.Name
	} else {
		e.Name = body.ErrorName
	}
	if body.Message != "" {
		e.Message = body.Message
	}
	return e
}
