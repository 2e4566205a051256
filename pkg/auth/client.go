package auth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/mapstructure"

	"github.com/hashicorp-forge/infobip-go/pkg/apierror"
	"github.com/hashicorp-forge/infobip-go/pkg/codec"
)

// Doer is the HTTP transport a Client sends requests through. *http.Client
// satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Headers returns the base headers for a credential and response format:
// Authorization, Content-Type and Accept.
func Headers(cred *Credential, format codec.Format) http.Header {
	h := make(http.Header, 3)
	h.Set("Authorization", cred.AuthorizationHeader())
	h.Set("Content-Type", format.ContentType())
	h.Set("Accept", format.ContentType())
	return h
}

// Client issues requests signed with one credential in one body format. It
// adds no retries, timeouts or redirect policy of its own; those belong to
// the Doer. A Client is safe for concurrent use if its Doer is.
type Client struct {
	doer   Doer
	header http.Header
	format codec.Format
	masked string
	logger hclog.Logger
}

// ClientOption customizes a derived Client.
type ClientOption func(*Client)

// WithDoer sets the transport. The default is http.DefaultClient.
func WithDoer(d Doer) ClientOption {
	return func(c *Client) {
		if d != nil {
			c.doer = d
		}
	}
}

// WithLogger sets a logger for request tracing at debug level.
func WithLogger(l hclog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// DeriveClient returns a Client pre-configured with the headers for cred and
// format. It has no side effects beyond allocating the client.
func DeriveClient(cred *Credential, format codec.Format, opts ...ClientOption) *Client {
	c := &Client{
		doer:   http.DefaultClient,
		header: Headers(cred, format),
		format: format,
		masked: cred.Masked(),
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Header returns a copy of the headers sent with every request.
func (c *Client) Header() http.Header {
	return c.header.Clone()
}

// Format returns the body format used for requests and responses.
func (c *Client) Format() codec.Format {
	return c.format
}

// Get issues a GET request to url.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil)
}

// Post issues a POST request to url with body encoded in the client format.
// A nil body sends no content.
func (c *Client) Post(ctx context.Context, url string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, url, body)
}

// Put issues a PUT request to url with body encoded in the client format.
func (c *Client) Put(ctx context.Context, url string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, url, body)
}

// Do issues exactly one request. Non-2xx responses are returned as
// *apierror.ResponseError and failures to get any response as
// *apierror.RequestError.
func (c *Client) Do(ctx context.Context, method, url string, body any) (*Response, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := c.format.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range c.header {
		req.Header[k] = append([]string(nil), v...)
	}

	c.logger.Debug("sending request",
		"method", method,
		"url", url,
		"authorization", c.masked,
	)

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, &apierror.RequestError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("received response",
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"content_length", len(raw),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apierror.ResponseError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Header:     resp.Header,
			Raw:        raw,
			Body:       c.errorBody(raw),
		}
	}

	data, err := c.format.Unmarshal(raw)
	if err != nil {
		// Keep non-conforming success bodies rather than failing the call.
		data = string(raw)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Raw:        raw,
		Data:       data,
	}, nil
}

// errorBody decodes a failure body. Only objects and lists count as a
// structured body; anything else, including an empty element, is nil.
func (c *Client) errorBody(raw []byte) any {
	decoded, err := c.format.Unmarshal(raw)
	if err != nil {
		return nil
	}
	switch decoded.(type) {
	case map[string]any, []any:
		return decoded
	default:
		return nil
	}
}

// Response is a successful (2xx) provider response.
type Response struct {
	StatusCode int
	Header     http.Header

	// Raw is the unmodified response body.
	Raw []byte

	// Data is the body decoded into generic values (maps, slices, strings,
	// numbers, booleans). It is nil for empty bodies.
	Data any
}

// Decode copies Data into v, typically a pointer to one of the response
// structs in the service packages. Fields are matched by their json tag and
// scalar types are converted loosely, so XML bodies (all strings) decode into
// numeric and boolean fields.
func (r *Response) Decode(v any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           v,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := dec.Decode(r.Data); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
