package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// IdempotencyKeyHeader is the header name for idempotency keys.
const IdempotencyKeyHeader = "Idempotency-Key"

// IdempotencyMiddleware replays the stored response of a mutating request
// that repeats an Idempotency-Key.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. A zero ttl
// uses usecase.IdempotencyKeyTTL.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		key = scopedKey(r, key)

		exists, cached, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "idempotency check failed")
			return
		}

		if exists {
			if string(cached) == usecase.IdempotencyPending {
				writeJSONError(w, http.StatusConflict, "a request with this idempotency key is still being processed")
				return
			}
			replay(w, cached)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode < 200 || recorder.statusCode >= 300 {
			if err := m.store.Release(r.Context(), key); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("failed to release idempotency key")
			}
			return
		}

		// Empty and non-JSON bodies are stored as null and replayed without a body.
		body := recorder.body.Bytes()
		if !json.Valid(body) {
			body = nil
		}

		data, err := json.Marshal(storedResponse{Status: recorder.statusCode, Body: body})
		if err == nil {
			err = m.store.Update(r.Context(), key, data, m.ttl)
		}
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to store idempotent response")
			if err := m.store.Release(r.Context(), key); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("failed to release idempotency key")
			}
		}
	})
}

// scopedKey keeps keys of different callers and routes apart.
func scopedKey(r *http.Request, key string) string {
	owner := "anonymous"
	if p, ok := domain.PrincipalFromContext(r.Context()); ok {
		owner = p.UserID
	}
	return owner + ":" + r.Method + ":" + r.URL.Path + ":" + key
}

func replay(w http.ResponseWriter, cached []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Idempotency-Replay", "true")

	var stored storedResponse
	if err := json.Unmarshal(cached, &stored); err != nil || stored.Status == 0 {
		_, _ = w.Write(cached)
		return
	}

	w.WriteHeader(stored.Status)
	if len(stored.Body) > 0 && string(stored.Body) != "null" {
		_, _ = w.Write(stored.Body)
	}
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
