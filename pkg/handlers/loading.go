package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"app-catalog-backend/pkg/logger"
	"app-catalog-backend/pkg/progress"
	"app-catalog-backend/pkg/utils"

	"go.uber.org/zap"
)

// LoadingHandler streams the loading screen progress as server-sent events.
type LoadingHandler struct {
	sequence progress.Sequence
}

// NewLoadingHandler 创建加载进度处理器
func NewLoadingHandler(sequence progress.Sequence) *LoadingHandler {
	return &LoadingHandler{sequence: sequence}
}

// Stream writes one "progress" event per frame and a final "complete" event.
// The stream stops when the client goes away.
func (h *LoadingHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.WriteInternalServerErrorResponse(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	err := h.sequence.Run(r.Context(), func(frame progress.Frame) error {
		event := "progress"
		if frame.Complete {
			event = "complete"
		}
		data, err := json.Marshal(frame)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil && r.Context().Err() == nil {
		logger.Warn("loading stream stopped", zap.Error(err))
	}
}
