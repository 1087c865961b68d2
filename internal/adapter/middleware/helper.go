package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func bodyHash(b []byte) string { s := sha256.Sum256(b); return hex.EncodeToString(s[:]) }

// requestFingerprint identifies a request body for key reuse checks. Multipart
// bodies are reduced to their parts first because every client picks a fresh
// boundary, so a retried upload would otherwise never match.
func requestFingerprint(contentType string, body []byte) string {
	mt, params, err := mime.ParseMediaType(contentType)
	if err != nil || mt != echo.MIMEMultipartForm || params["boundary"] == "" {
		return bodyHash(body)
	}
	parts, err := multipartParts(body, params["boundary"])
	if err != nil {
		return bodyHash(body)
	}
	sort.Strings(parts)
	return bodyHash([]byte(strings.Join(parts, "\n")))
}

// multipartParts renders each part as field name, file name and content digest.
func multipartParts(body []byte, boundary string) ([]string, error) {
	mr := multipart.NewReader(bytes.NewReader(body), boundary)
	var out []string
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		h := sha256.New()
		_, err = io.Copy(h, p)
		_ = p.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, fmt.Sprintf("%q %q %x", p.FormName(), p.FileName(), h.Sum(nil)))
	}
}

func nowUTC() time.Time { return time.Now().UTC() }

func buildKey(method, path, key string) string {
	return "idemp:kamikaya:" + strings.ToLower(method) + ":" + path + ":" + key
}

var (
	reUUID  = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-5][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)
	reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)
)

// validKey accepts a lowercase UUID (v1-v5) or 32-char lowercase hex.
func validKey(k string) bool {
	return reUUID.MatchString(k) || reHex32.MatchString(k)
}

// ---- Redis helpers ----
func provisionalSet(ctx context.Context, rdb redis.Cmdable, key string, entry idempEntry) (bool, error) {
	payload, _ := json.Marshal(entry)
	return rdb.SetNX(ctx, key, payload, provisionalLockTTL).Result()
}

func loadEntry(ctx context.Context, rdb redis.Cmdable, key string) (idempEntry, error) {
	var e idempEntry
	v, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(v, &e)
	return e, err
}

func saveFinal(ctx context.Context, rdb redis.Cmdable, key string, entry idempEntry, ttl time.Duration) error {
	payload, _ := json.Marshal(entry)
	return rdb.Set(ctx, key, payload, ttl).Err()
}

func release(ctx context.Context, rdb redis.Cmdable, key string) error {
	return rdb.Del(ctx, key).Err()
}
