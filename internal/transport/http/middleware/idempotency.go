package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	ReplayedHeader       = "Idempotent-Replayed"

	idemPending = "pending"
	idemDone    = "done"
	maxKeyLen   = 255
)

type idemRecord struct {
	State       string `json:"state"`
	BodyHash    string `json:"body_hash"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Idempotency makes a handler safe to retry. A request carrying an
// Idempotency-Key header is executed at most once per (user, key) within ttl;
// repeats get the stored response back. A repeat with a different body gets
// 422, and a repeat while the first is still running gets 409. 5xx responses
// are not stored so the client may retry them.
//
// If Redis cannot claim the key the request runs unguarded. Once the key is
// known to exist, a failed lookup answers 503.
//
// Must run after Auth. Requests without the header pass straight through.
func Idempotency(rdb redis.UniversalClient, ttl time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idemKey := r.Header.Get(IdempotencyKeyHeader)
			if idemKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(idemKey) > maxKeyLen {
				writeJSONError(w, http.StatusBadRequest, "idempotency key too long")
				return
			}
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				writeJSONError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			sum := sha256.Sum256(body)
			hash := hex.EncodeToString(sum[:])

			ctx := r.Context()
			key := "idem:" + claims.UserID + ":" + r.Method + ":" + r.URL.Path + ":" + idemKey
			pending, _ := json.Marshal(idemRecord{State: idemPending, BodyHash: hash})

			acquired, err := rdb.SetNX(ctx, key, pending, ttl).Result()
			if err != nil {
				// Fail open when Redis is unreachable.
				logger.Warn("idempotency store unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !acquired {
				replay(w, r, rdb, key, hash, logger)
				return
			}

			bg := context.WithoutCancel(ctx)
			var buf bytes.Buffer
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&buf)
			completed := false
			defer func() {
				if completed {
					return
				}
				// Panic or 5xx: release the key so the client can retry.
				if err := rdb.Del(bg, key).Err(); err != nil {
					logger.Warn("release idempotency key failed", "key", key, "error", err)
				}
			}()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status >= http.StatusInternalServerError {
				return
			}
			done, _ := json.Marshal(idemRecord{
				State:       idemDone,
				BodyHash:    hash,
				Status:      status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        buf.Bytes(),
			})
			if err := rdb.Set(bg, key, done, ttl).Err(); err != nil {
				logger.Warn("store idempotent response failed", "key", key, "error", err)
				return
			}
			completed = true
		})
	}
}

func replay(w http.ResponseWriter, r *http.Request, rdb redis.UniversalClient, key, hash string, logger *slog.Logger) {
	raw, err := rdb.Get(r.Context(), key).Bytes()
	if errors.Is(err, redis.Nil) {
		// Expired or released between SETNX and GET.
		writeJSONError(w, http.StatusConflict, "request with this idempotency key is in progress")
		return
	}
	if err != nil {
		logger.Warn("idempotency lookup failed", "key", key, "error", err)
		writeJSONError(w, http.StatusServiceUnavailable, "idempotency store unavailable")
		return
	}
	var rec idemRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if rec.BodyHash != hash {
		writeJSONError(w, http.StatusUnprocessableEntity, "idempotency key reused with a different request body")
		return
	}
	if rec.State != idemDone {
		writeJSONError(w, http.StatusConflict, "request with this idempotency key is in progress")
		return
	}
	if rec.ContentType != "" {
		w.Header().Set("Content-Type", rec.ContentType)
	}
	w.Header().Set(ReplayedHeader, "true")
	w.WriteHeader(rec.Status)
	_, _ = w.Write(rec.Body)
}
