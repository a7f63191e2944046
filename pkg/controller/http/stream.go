package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/healthnav/healthnav/pkg/usecase"
	"github.com/healthnav/healthnav/pkg/utils/errutil"
	"github.com/healthnav/healthnav/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// streamKeepAlive is the interval of SSE comment lines that keep idle
// connections open through proxies
const streamKeepAlive = 30 * time.Second

// streamSubscription relays every snapshot of sub to the client as a
// server-sent event named event until either side goes away
func streamSubscription[T any](w http.ResponseWriter, r *http.Request, event string, sub *usecase.Subscription[T]) {
	ctx := r.Context()
	defer sub.Cancel()

	flusher, ok := w.(http.Flusher)
	if !ok {
		errutil.HandleHTTP(ctx, w, goerr.New("streaming is not supported by the response writer"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case v, ok := <-sub.Updates():
			if !ok {
				return
			}
			data, err := json.Marshal(v)
			if err != nil {
				logging.From(ctx).Error("failed to marshal stream event", "event", event, "error", err)
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
				logging.From(ctx).Debug("stream client went away", "event", event, "error", err)
				return
			}
			flusher.Flush()
		}
	}
}
