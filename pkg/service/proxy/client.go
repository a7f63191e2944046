// Package proxy calls a remote recommendation proxy over the callable wire
// format.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/healthnav/healthnav/pkg/domain/interfaces"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/domain/model/auth"
	"github.com/healthnav/healthnav/pkg/domain/types"
	"github.com/healthnav/healthnav/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultTimeout bounds one remote call. Model latency dominates it.
const DefaultTimeout = 60 * time.Second

// maxResponseSize bounds the response body read from the proxy
const maxResponseSize = 1 << 20

// TokenIssuer signs a session token the proxy accepts for identity
type TokenIssuer interface {
	Issue(ctx context.Context, identity model.Identity) (*auth.Session, error)
}

// Client is a RecommendationProxy that forwards requests to a remote endpoint
type Client struct {
	endpoint   string
	issuer     TokenIssuer
	httpClient *http.Client
}

var _ interfaces.RecommendationProxy = &Client{}

// Option is a functional option for Client
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for calls
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// New creates a Client posting to endpoint, the full URL of the callable
func New(endpoint string, issuer TokenIssuer, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, goerr.New("proxy endpoint is required")
	}
	if issuer == nil {
		return nil, goerr.New("token issuer is required")
	}

	c := &Client{
		endpoint:   endpoint,
		issuer:     issuer,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GenerateRecommendations calls the remote proxy on behalf of identity. An
// empty identity is sent without credentials so the proxy rejects it.
// Failures always carry a *model.ProxyError.
func (c *Client) GenerateRecommendations(ctx context.Context, identity model.Identity, req *model.GenerationRequest) (*model.RecommendationResult, error) {
	body, err := json.Marshal(model.CallableRequest{Data: req})
	if err != nil {
		return nil, internalError(err, "failed to marshal callable request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, internalError(err, "failed to create callable request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	if !identity.IsEmpty() {
		session, err := c.issuer.Issue(ctx, identity)
		if err != nil {
			return nil, internalError(err, "failed to issue session token")
		}
		httpReq.Header.Set("Authorization", "Bearer "+session.Token)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, internalError(err, "failed to call recommendation proxy")
	}
	defer safe.Close(ctx, httpResp.Body)

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, internalError(err, "failed to read proxy response")
	}

	var resp model.CallableResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, internalError(goerr.Wrap(err, "undecodable proxy response",
			goerr.V("status", httpResp.StatusCode),
			goerr.V("body", truncate(string(raw), 256))), "failed to decode proxy response")
	}

	if resp.Error != nil {
		return nil, goerr.Wrap(resp.Error.ProxyError(), "recommendation proxy returned an error",
			goerr.V("status", httpResp.StatusCode))
	}
	if resp.Result == nil {
		return nil, internalError(goerr.New("proxy response has neither result nor error",
			goerr.V("status", httpResp.StatusCode)), "empty proxy response")
	}

	return resp.Result, nil
}

func internalError(err error, msg string) error {
	return goerr.Wrap(model.NewProxyError(types.ErrorKindInternal, msg, err.Error()), msg)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
