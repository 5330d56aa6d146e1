package handler

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/letsgo/internal/logger"
	"github.com/Shivanand-hulikatti/letsgo/internal/model"
)

const (
	// IdempotencyKeyHeader names the client-chosen key for a retried request.
	IdempotencyKeyHeader = "X-Idempotency-Key"
	// IdempotentReplayHeader is set on responses served from a stored record.
	IdempotentReplayHeader = "X-Idempotent-Replay"

	idempotencyKeyPrefix = "idempotency:"
	processingTTL        = 60 * time.Second
)

// RedisClient is the subset of go-redis used for idempotency records.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type idempotencyStatus string

const (
	statusProcessing idempotencyStatus = "processing"
	statusCompleted  idempotencyStatus = "completed"
)

type idempotencyRecord struct {
	Status       idempotencyStatus `json:"status"`
	RequestHash  string            `json:"request_hash"`
	ResponseCode int               `json:"response_code,omitempty"`
	ResponseBody string            `json:"response_body,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Idempotency makes a write safe to retry. A request carrying
// X-Idempotency-Key is executed at most once per caller and key; later
// requests with the same key and body receive the stored response. Server
// errors are not stored so the client can retry them. When Redis is
// unavailable the request runs without protection.
//
// It must run after Auth so keys are scoped to the caller.
func Idempotency(rdb RedisClient, ttl time.Duration, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyKeyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				writeError(w, r, model.Validation("request body too large"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			ctx := r.Context()
			redisKey := idempotencyKeyPrefix + userKey(ctx) + ":" + key
			hash := requestHash(r, body)

			existing, err := loadRecord(ctx, rdb, redisKey)
			if err != nil && !errors.Is(err, redis.Nil) {
				log.Warn("idempotency lookup failed, continuing without it",
					zap.String("request_id", RequestIDFrom(ctx)), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if existing != nil {
				replay(w, r, existing, hash)
				return
			}

			record := &idempotencyRecord{Status: statusProcessing, RequestHash: hash, CreatedAt: time.Now().UTC()}
			data, _ := json.Marshal(record)
			acquired, err := rdb.SetNX(ctx, redisKey, data, processingTTL).Result()
			if err != nil {
				log.Warn("idempotency reserve failed, continuing without it",
					zap.String("request_id", RequestIDFrom(ctx)), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !acquired {
				// Lost the race to a concurrent request with the same key.
				if existing, _ = loadRecord(ctx, rdb, redisKey); existing != nil {
					replay(w, r, existing, hash)
					return
				}
				writeError(w, r, model.Conflict("a request with this idempotency key is already being processed"))
				return
			}

			rec := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			// The client may have gone away; the record must still be settled.
			saveCtx := context.WithoutCancel(ctx)
			if rec.status >= http.StatusInternalServerError {
				if err := rdb.Del(saveCtx, redisKey).Err(); err != nil {
					log.Warn("idempotency release failed", zap.String("key", redisKey), zap.Error(err))
				}
				return
			}
			record.Status = statusCompleted
			record.ResponseCode = rec.status
			record.ResponseBody = rec.body.String()
			data, _ = json.Marshal(record)
			if err := rdb.Set(saveCtx, redisKey, data, ttl).Err(); err != nil {
				log.Warn("idempotency save failed", zap.String("key", redisKey), zap.Error(err))
			}
		})
	}
}

func replay(w http.ResponseWriter, r *http.Request, rec *idempotencyRecord, hash string) {
	switch {
	case rec.RequestHash != hash:
		writeError(w, r, model.Conflict("idempotency key already used with a different request"))
	case rec.Status == statusProcessing:
		writeError(w, r, model.Conflict("a request with this idempotency key is already being processed"))
	default:
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set(IdempotentReplayHeader, "true")
		w.WriteHeader(rec.ResponseCode)
		_, _ = io.WriteString(w, rec.ResponseBody)
	}
}

func loadRecord(ctx context.Context, rdb RedisClient, key string) (*idempotencyRecord, error) {
	raw, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var rec idempotencyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func requestHash(r *http.Request, body []byte) string {
	h := sha256.New()
	h.Write([]byte(r.Method))
	h.Write([]byte(r.URL.Path))
	h.Write([]byte(userKey(r.Context())))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// captureWriter tees the response so it can be stored.
type captureWriter struct {
	http.ResponseWriter
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func (c *captureWriter) WriteHeader(code int) {
	if !c.wroteHeader {
		c.status = code
		c.wroteHeader = true
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *captureWriter) Write(b []byte) (int, error) {
	c.wroteHeader = true
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}
