package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/healthnav/healthnav/pkg/domain/interfaces"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/domain/model/auth"
	"github.com/healthnav/healthnav/pkg/domain/types"
	"github.com/healthnav/healthnav/pkg/usecase"
	"github.com/healthnav/healthnav/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// CallablePath is where the recommendation proxy is mounted
const CallablePath = "/generateHealthRecommendations"

// SessionVerifier resolves a bearer token into a session
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Session, error)
}

// Callable serves the recommendation proxy over the callable wire format.
// It is transport-neutral so that both the HTTP server and the Lambda
// adapter can share it.
type Callable struct {
	proxy    interfaces.RecommendationProxy
	sessions SessionVerifier
}

// NewCallable creates a Callable. A nil sessions verifier treats every
// caller as unauthenticated.
func NewCallable(proxy interfaces.RecommendationProxy, sessions SessionVerifier) *Callable {
	return &Callable{proxy: proxy, sessions: sessions}
}

// Handle processes one callable request and returns the status code and the
// response envelope to send back
func (c *Callable) Handle(ctx context.Context, authorization string, body []byte) (int, *model.CallableResponse) {
	return c.dispatch(ctx, c.identify(ctx, authorization), body)
}

func (c *Callable) dispatch(ctx context.Context, identity model.Identity, body []byte) (int, *model.CallableResponse) {
	if identity.IsEmpty() {
		return unauthenticated()
	}

	var req model.CallableRequest
	decoder := json.NewDecoder(bytes.NewReader(body))
	if err := decoder.Decode(&req); err != nil {
		logging.From(ctx).Warn("malformed callable request", "error", err.Error())
		return errorEnvelope(model.NewProxyError(types.ErrorKindInvalidArgument, usecase.ProxyMessageInvalidArgument, "request body is not valid JSON"))
	}

	result, err := c.proxy.GenerateRecommendations(ctx, identity, req.Data)
	if err != nil {
		return errorEnvelope(err)
	}

	return http.StatusOK, &model.CallableResponse{Result: result}
}

func (c *Callable) identify(ctx context.Context, authorization string) model.Identity {
	token := bearerToken(authorization)
	if token == "" || c.sessions == nil {
		return ""
	}

	session, err := c.sessions.Verify(ctx, token)
	if err != nil {
		logging.From(ctx).Debug("callable session rejected", "error", err.Error())
		return ""
	}
	return session.Identity
}

func unauthenticated() (int, *model.CallableResponse) {
	return errorEnvelope(model.NewProxyError(types.ErrorKindUnauthenticated, usecase.ProxyMessageUnauthenticated, ""))
}

func errorEnvelope(err error) (int, *model.CallableResponse) {
	return model.ProxyErrorKind(err).HTTPStatus(), &model.CallableResponse{
		Error: model.NewCallableError(err),
	}
}

func bearerToken(authorization string) string {
	const prefix = "Bearer "
	if len(authorization) < len(prefix) || !strings.EqualFold(authorization[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(authorization[len(prefix):])
}

// ServeHTTP adapts Callable to net/http
func (c *Callable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := c.identify(ctx, r.Header.Get("Authorization"))

	// unauthenticated callers learn nothing about their payload
	if identity.IsEmpty() {
		status, resp := unauthenticated()
		writeJSON(ctx, w, status, resp)
		return
	}

	body, err := readBody(r)
	if err != nil {
		status, resp := errorEnvelope(model.NewProxyError(types.ErrorKindInvalidArgument, usecase.ProxyMessageInvalidArgument, "failed to read request body"))
		writeJSON(ctx, w, status, resp)
		return
	}

	status, resp := c.dispatch(ctx, identity, body)
	writeJSON(ctx, w, status, resp)
}

// EncodeCallableResponse renders resp for transports that need raw bytes
func EncodeCallableResponse(resp *model.CallableResponse) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal callable response")
	}
	return data, nil
}
