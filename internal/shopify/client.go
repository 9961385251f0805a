package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jafarshop/productcreator/internal/config"
)

const maxRedirects = 5

// Client talks to the Shopify Admin API (REST and GraphQL).
// A Client is immutable; WithDomain returns a copy bound to another shop host.
type Client struct {
	shopDomain  string
	accessToken string
	apiVersion  string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a new Shopify Admin API client
func NewClient(cfg config.ShopifyConfig, logger *zap.Logger) *Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: cfg.HTTPTimeout}, logger)
}

// NewClientWithHTTP creates a client on top of an existing http.Client.
// Redirects are never followed by the http.Client itself; see do.
func NewClientWithHTTP(cfg config.ShopifyConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	hc := &http.Client{}
	if httpClient != nil {
		copied := *httpClient
		hc = &copied
	}
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &Client{
		shopDomain:  NormalizeDomain(cfg.ShopDomain),
		accessToken: cfg.AccessToken,
		apiVersion:  cfg.APIVersion,
		httpClient:  hc,
		logger:      logger,
	}
}

// NormalizeDomain removes https://, http:// and trailing slashes
func NormalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimRight(domain, "/")
}

// Domain is the shop host requests are sent to
func (c *Client) Domain() string {
	return c.shopDomain
}

// WithDomain returns a copy of the client that sends requests to domain.
// An empty domain returns the receiver unchanged.
func (c *Client) WithDomain(domain string) *Client {
	domain = NormalizeDomain(domain)
	if domain == "" || domain == c.shopDomain {
		return c
	}
	copied := *c
	copied.shopDomain = domain
	return &copied
}

// Response is a fully read Shopify HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// RedirectedHost is the host Shopify redirected the request to, empty if it was not redirected
	RedirectedHost string
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// do sends the request and follows redirects by hand, re-sending the same method and body.
// http.Client would turn a redirected POST/PUT into a GET.
func (c *Client) do(ctx context.Context, method, target string, body []byte, contentType string) (*Response, error) {
	redirectedHost := ""
	for hop := 0; ; hop++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("X-Shopify-Access-Token", c.accessToken)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Cache-Control", "no-cache")
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		location := resp.Header.Get("Location")
		if isRedirect(resp.StatusCode) && location != "" {
			if hop >= maxRedirects {
				return nil, fmt.Errorf("shopify redirected %s %s more than %d times", method, target, maxRedirects)
			}
			next, err := req.URL.Parse(location)
			if err != nil {
				return nil, fmt.Errorf("invalid redirect location %q: %w", location, err)
			}
			c.logger.Debug("Following Shopify redirect",
				zap.String("method", method),
				zap.String("from", target),
				zap.String("to", next.String()),
				zap.Int("status", resp.StatusCode),
			)
			target = next.String()
			if next.Host != c.shopDomain {
				redirectedHost = next.Host
			}
			continue
		}

		return &Response{
			StatusCode:     resp.StatusCode,
			Header:         resp.Header,
			Body:           respBody,
			RedirectedHost: redirectedHost,
		}, nil
	}
}

func (c *Client) restURL(path string) string {
	return fmt.Sprintf("https://%s/admin/api/%s/%s", c.shopDomain, c.apiVersion, strings.TrimPrefix(path, "/"))
}

// REST sends a JSON request to an Admin REST path such as "products/1.json".
// Non-2xx answers return the response together with an *HTTPStatusError.
func (c *Client) REST(ctx context.Context, method, path string, payload interface{}) (*Response, error) {
	var body []byte
	contentType := ""
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		contentType = "application/json"
	}
	resp, err := c.do(ctx, method, c.restURL(path), body, contentType)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, newHTTPStatusError(resp.StatusCode, body, resp.Body)
	}
	return resp, nil
}

// GraphQLRequest represents a GraphQL request
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLResponse represents a GraphQL response
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error
type GraphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

// Execute executes a GraphQL query/mutation
func (c *Client) Execute(ctx context.Context, query string, variables map[string]interface{}) (*GraphQLResponse, error) {
	jsonData, err := json.Marshal(GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, c.restURL("graphql.json"), jsonData, "application/json")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newHTTPStatusError(resp.StatusCode, jsonData, resp.Body)
	}

	var graphQLResp GraphQLResponse
	if err := json.Unmarshal(resp.Body, &graphQLResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(resp.Body))
	}

	if len(graphQLResp.Errors) > 0 {
		errorMessages := make([]string, len(graphQLResp.Errors))
		for i, err := range graphQLResp.Errors {
			errorMessages[i] = err.Message
		}
		return nil, fmt.Errorf("graphQL errors: %s", strings.Join(errorMessages, "; "))
	}

	return &graphQLResp, nil
}
