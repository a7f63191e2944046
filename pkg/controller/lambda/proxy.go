// Package lambda hosts the recommendation proxy as an AWS Lambda function
// behind an API Gateway proxy integration.
package lambda

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	httpctrl "github.com/healthnav/healthnav/pkg/controller/http"
	"github.com/healthnav/healthnav/pkg/utils/errutil"
	"github.com/healthnav/healthnav/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// ProxyHandler adapts API Gateway proxy events to the callable protocol
type ProxyHandler struct {
	callable *httpctrl.Callable
}

func NewProxyHandler(callable *httpctrl.Callable) *ProxyHandler {
	return &ProxyHandler{callable: callable}
}

// Handle serves one invocation. Protocol failures are encoded in the
// response; a returned error means the response itself could not be built.
func (h *ProxyHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ctx = logging.With(ctx, logging.From(ctx).With("request_id", request.RequestContext.RequestID))

	if request.HTTPMethod != "" && request.HTTPMethod != http.MethodPost {
		return jsonResponse(http.StatusMethodNotAllowed, `{"error":"method not allowed"}`), nil
	}

	body := []byte(request.Body)
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(request.Body)
		if err != nil {
			logging.From(ctx).Warn("failed to decode base64 body", "error", err.Error())
			body = nil
		} else {
			body = decoded
		}
	}

	status, resp := h.callable.Handle(ctx, header(request.Headers, "Authorization"), body)
	data, err := httpctrl.EncodeCallableResponse(resp)
	if err != nil {
		errutil.Handle(ctx, err, "failed to encode callable response")
		return events.APIGatewayProxyResponse{}, goerr.Wrap(err, "failed to build lambda response")
	}

	return jsonResponse(status, string(data)), nil
}

// Start blocks serving invocations from the Lambda runtime
func (h *ProxyHandler) Start() {
	lambda.Start(h.Handle)
}

func jsonResponse(status int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: body,
	}
}

// header looks up name case-insensitively; API Gateway preserves the
// client's casing
func header(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
