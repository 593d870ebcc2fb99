package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/ltjbukem-breaks/aws-rideshare-streaming/internal/processor"
)

// InvokeResponse is the function-style result of one invocation. The
// HTTP status is always 200; the outcome travels in statusCode so
// callers see the same contract as a direct function invocation.
type InvokeResponse struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// BatchRunner runs one generation batch.
type BatchRunner interface {
	Run(ctx context.Context, numTrips int) (string, error)
}

// NotificationHandler processes one object-store notification.
type NotificationHandler interface {
	HandleNotification(ctx context.Context, n processor.Notification) (string, string, error)
}

// generateRequest is the invoke payload of the generator service.
type generateRequest struct {
	NumTrips int `json:"num_trips"`
}

// GeneratorInvokeHandler returns the invoke handler for the generator
// service. An absent or non-positive num_trips falls back to
// defaultTrips.
func GeneratorInvokeHandler(batch BatchRunner, defaultTrips int, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		// An empty body means default batch size.
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeInvokeResponse(w, logger, InvokeResponse{
				StatusCode: http.StatusInternalServerError,
				Body:       fmt.Sprintf("Error: %s", err),
			})
			return
		}

		numTrips := req.NumTrips
		if numTrips <= 0 {
			numTrips = defaultTrips
		}

		summary, err := batch.Run(r.Context(), numTrips)
		if err != nil {
			logger.Error("generation batch failed", zap.Error(err))
			writeInvokeResponse(w, logger, InvokeResponse{
				StatusCode: http.StatusInternalServerError,
				Body:       fmt.Sprintf("Error: %s", err),
			})
			return
		}

		writeInvokeResponse(w, logger, InvokeResponse{
			StatusCode: http.StatusOK,
			Body:       summary,
		})
	})
}

// ProcessorInvokeHandler returns the invoke handler for the processor
// service. The request body is an object-store notification.
func ProcessorInvokeHandler(handler NotificationHandler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var notification processor.Notification
		if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
			writeInvokeResponse(w, logger, InvokeResponse{
				StatusCode: http.StatusInternalServerError,
				Body:       fmt.Sprintf("Error: %s", err),
			})
			return
		}

		rawKey, curatedKey, err := handler.HandleNotification(r.Context(), notification)
		if err != nil {
			logger.Error("processing failed",
				zap.String("raw_key", rawKey),
				zap.Error(err),
			)
			writeInvokeResponse(w, logger, InvokeResponse{
				StatusCode: http.StatusInternalServerError,
				Body:       fmt.Sprintf("Error: %s", err),
			})
			return
		}

		writeInvokeResponse(w, logger, InvokeResponse{
			StatusCode: http.StatusOK,
			Body:       fmt.Sprintf("Processed %s to %s", rawKey, curatedKey),
		})
	})
}

func writeInvokeResponse(w http.ResponseWriter, logger *zap.Logger, resp InvokeResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed to encode invoke response", zap.Error(err))
	}
}
