package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/healthnav/healthnav/pkg/utils/errutil"
	"github.com/healthnav/healthnav/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// maxBodySize bounds request bodies. Prompts are the largest payload.
const maxBodySize = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, data)
}

func readBody(r *http.Request) ([]byte, error) {
	defer safe.Close(r.Context(), r.Body)

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read request body")
	}
	return data, nil
}

// decodeJSON strictly decodes the request body into v
func decodeJSON(r *http.Request, v any) error {
	defer safe.Close(r.Context(), r.Body)

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return goerr.Wrap(err, "invalid request body")
	}
	return nil
}
