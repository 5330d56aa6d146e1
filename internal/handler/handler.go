// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/letsgo/internal/logger"
	"github.com/Shivanand-hulikatti/letsgo/internal/model"
)

const maxBodyBytes = 1 << 20 // 1 MB

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind model.ErrorKind) int {
	switch kind {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindForbidden:
		return http.StatusForbidden
	case model.KindConflict, model.KindCapacityExceeded:
		return http.StatusConflict
	case model.KindUpstreamPayment:
		return http.StatusBadGateway
	case model.KindUnauthenticated:
		return http.StatusUnauthorized
	case model.KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err in the standard envelope. Unclassified errors are
// logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := model.KindOf(err)
	status := statusFor(kind)

	msg := "internal server error"
	var e *model.Error
	if errors.As(err, &e) && kind != model.KindInternal {
		msg = e.Message
	}

	if status >= http.StatusInternalServerError || kind == model.KindUpstreamPayment {
		logger.Get().Error("request failed",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	writeJSON(w, status, model.ErrorResponse{Error: model.ErrorBody{Code: kind, Message: msg}})
}

// decodePayload reads a JSON object body. An empty body is an empty object.
func decodePayload(w http.ResponseWriter, r *http.Request) (model.Payload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var p model.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return model.Payload{}, nil
		}
		return nil, model.Validation("request body must be a JSON object: %v", err)
	}
	if p == nil {
		p = model.Payload{}
	}
	return p, nil
}

// pathID parses the {id} URL parameter. A malformed id cannot name a
// resource, so it is reported as not found.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, ok := model.ParseID(raw)
	if !ok {
		return 0, model.NotFound("no resource with id %q", raw)
	}
	return id, nil
}

// queryIDs parses a repeatable id query parameter. Comma separated values
// are accepted too.
func queryIDs(r *http.Request, key string) ([]int64, error) {
	var ids []int64
	for _, v := range r.URL.Query()[key] {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, ok := model.ParseID(part)
			if !ok {
				return nil, model.Validation("%s must be a list of integer ids", key)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ─── Fallbacks and health ─────────────────────────────────────────────────────

// NotFound handles unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, model.NotFound("no route for %s", r.URL.Path))
}

// MethodNotAllowed handles routes that exist but not for this method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, model.NewError(model.KindMethodNotAllowed, "method %s not allowed", r.Method))
}

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

// HealthCheck handles GET /health
func HealthCheck(checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		result := map[string]string{"status": "ok"}
		for name, ping := range checks {
			if err := ping(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				result["status"] = "degraded"
				result[name] = err.Error()
				continue
			}
			result[name] = "ok"
		}
		writeJSON(w, status, result)
	}
}
