package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"

	// How long we hold the "in-progress" lock before it must be refreshed by finishing the handler.
	provisionalLockTTL = 60 * time.Second
	redisTimeout       = 2 * time.Second
)

type idempEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	CreatedAt   time.Time `json:"created_at"`
}

type respRecorder struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }
func (r *respRecorder) Write(b []byte) (int, error) {
	if r.buf != nil {
		r.buf.Write(b)
	}
	return r.w.Write(b)
}
func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

func detail(msg string) map[string]string { return map[string]string{"detail": msg} }

// Idempotency replays the stored response of a mutating request that carries
// an already-seen Idempotency-Key. Requests without the header pass through.
// key = method + route + Idempotency-Key; the body fingerprint must match on reuse.
// 5xx outcomes are not stored so the client can retry with the same key.
func Idempotency(rdb redis.Cmdable, ttl time.Duration, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			raw := strings.TrimSpace(req.Header.Get(HeaderIdempotencyKey))
			if raw == "" {
				return next(c)
			}
			idemKey := strings.ToLower(raw)
			if !validKey(idemKey) {
				return c.JSON(http.StatusBadRequest, detail("invalid Idempotency-Key format"))
			}

			var body []byte
			if req.Body != nil {
				b, err := io.ReadAll(req.Body)
				if err != nil {
					// BodyLimit reports an oversized body as an echo.HTTPError
					var he *echo.HTTPError
					if errors.As(err, &he) {
						return he
					}
					return c.JSON(http.StatusBadRequest, detail("could not read request body"))
				}
				body = b
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			bhash := requestFingerprint(req.Header.Get(echo.HeaderContentType), body)

			key := buildKey(req.Method, c.Path(), idemKey)
			ctx, cancel := context.WithTimeout(req.Context(), redisTimeout)
			defer cancel()

			ok, err := provisionalSet(ctx, rdb, key, idempEntry{
				InProgress: true,
				BodySHA256: bhash,
				CreatedAt:  nowUTC(),
			})
			if err != nil {
				log.Error("idempotency store unavailable", zap.String("key", key), zap.Error(err))
				return c.JSON(http.StatusServiceUnavailable, detail("idempotency store unavailable"))
			}
			if !ok {
				cur, errLoad := loadEntry(ctx, rdb, key)
				if errLoad != nil {
					log.Warn("failed to load idempotency entry", zap.String("key", key), zap.Error(errLoad))
				}
				if cur.BodySHA256 != "" && cur.BodySHA256 != bhash {
					return c.JSON(http.StatusConflict, detail("Idempotency-Key reused with different body"))
				}
				if !cur.InProgress && cur.Code != 0 {
					c.Response().Header().Set(HeaderReplayed, "true")
					ct := cur.ContentType
					if ct == "" {
						ct = echo.MIMEApplicationJSON
					}
					return c.Blob(cur.Code, ct, cur.Body)
				}
				return c.JSON(http.StatusConflict, detail("request is already in progress"))
			}

			rec := &respRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may be gone by now
			saveCtx, saveCancel := context.WithTimeout(context.Background(), redisTimeout)
			defer saveCancel()

			if rec.code >= http.StatusInternalServerError {
				if err := release(saveCtx, rdb, key); err != nil {
					log.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(err))
				}
				return nil
			}
			final := idempEntry{
				Code:        rec.code,
				ContentType: rec.Header().Get(echo.HeaderContentType),
				Body:        rec.buf.Bytes(),
				BodySHA256:  bhash,
				CreatedAt:   nowUTC(),
			}
			if err := saveFinal(saveCtx, rdb, key, final, ttl); err != nil {
				log.Warn("failed to store idempotent response", zap.String("key", key), zap.Error(err))
			}
			return nil
		}
	}
}
