package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
	"time"
)

func Test_bodyHash(t *testing.T) {
	data := []byte("hello world")
	sum := sha256.Sum256(data)
	if got, want := bodyHash(data), hex.EncodeToString(sum[:]); got != want {
		t.Fatalf("bodyHash mismatch: got %s want %s", got, want)
	}
}

func Test_requestFingerprint(t *testing.T) {
	part := func(boundary string) string {
		return "--" + boundary + "\r\n" +
			"Content-Disposition: form-data; name=\"full_name\"\r\n\r\nRina\r\n" +
			"--" + boundary + "--\r\n"
	}
	a := requestFingerprint("multipart/form-data; boundary=aaa", []byte(part("aaa")))
	b := requestFingerprint("multipart/form-data; boundary=bbb", []byte(part("bbb")))
	if a != b {
		t.Fatal("same parts under different boundaries must fingerprint equally")
	}

	form := []byte("full_name=Rina")
	if got := requestFingerprint("application/x-www-form-urlencoded", form); got != bodyHash(form) {
		t.Fatal("non-multipart bodies hash as-is")
	}
	broken := []byte("--zzz\r\nnot a header line")
	if got := requestFingerprint("multipart/form-data; boundary=zzz", broken); got != bodyHash(broken) {
		t.Fatal("unparsable multipart falls back to the raw hash")
	}
}

func Test_nowUTC(t *testing.T) {
	u := nowUTC()
	if u.Location() != time.UTC {
		t.Fatalf("nowUTC must be UTC, got %v", u.Location())
	}
	if d := time.Since(u); d < 0 || d > 2*time.Second {
		t.Fatalf("nowUTC too far from now: %v", d)
	}
}

func Test_buildKey(t *testing.T) {
	k := buildKey("POST", "/loan/apply", testKey)
	if want := "idemp:kamikaya:post:/loan/apply:" + testKey; k != want {
		t.Fatalf("buildKey = %q, want %q", k, want)
	}
}

func Test_validKey(t *testing.T) {
	for _, s := range []string{testKey, strings.Repeat("a", 32), "3f9a6a1b3d544fbe8b3a6b3e8d6b2c88"} {
		if !validKey(s) {
			t.Fatalf("validKey should accept %q", s)
		}
	}
	for _, s := range []string{
		"",
		"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",
		"zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz",
		"3f9a6a1b-3d54-9fbe-8b3a-6b3e8d6b2c88", // version 9
	} {
		if validKey(s) {
			t.Fatalf("validKey should reject %q", s)
		}
	}
}

func Test_provisionalSet_LoadEntry(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	ctx := context.Background()
	key := buildKey("POST", "/loan/apply", testKey)
	entry := idempEntry{InProgress: true, BodySHA256: bodyHash([]byte("a=1")), CreatedAt: nowUTC()}

	ok, err := provisionalSet(ctx, rdb, key, entry)
	if err != nil || !ok {
		t.Fatalf("provisionalSet 1: ok=%v err=%v", ok, err)
	}
	if ttl := rdb.TTL(ctx, key).Val(); ttl <= 0 || ttl > provisionalLockTTL {
		t.Fatalf("provisional TTL not set correctly: %v", ttl)
	}

	ok, err = provisionalSet(ctx, rdb, key, entry)
	if err != nil || ok {
		t.Fatalf("provisionalSet 2: ok=%v err=%v, want false/nil", ok, err)
	}

	got, err := loadEntry(ctx, rdb, key)
	if err != nil {
		t.Fatalf("loadEntry err: %v", err)
	}
	if !got.InProgress || got.BodySHA256 != entry.BodySHA256 {
		t.Fatalf("loaded entry mismatch: %+v vs %+v", got, entry)
	}

	if err := release(ctx, rdb, key); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := loadEntry(ctx, rdb, key); err == nil {
		t.Fatal("entry should be gone after release")
	}
}

func Test_saveFinal_Load_TTL(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	ctx := context.Background()
	key := buildKey("POST", "/loan/apply", testKey)
	final := idempEntry{Code: 200, Body: []byte(`{"success":true}`), ContentType: "application/json", CreatedAt: nowUTC()}

	ttlWant := 5 * time.Second
	if err := saveFinal(ctx, rdb, key, final, ttlWant); err != nil {
		t.Fatalf("saveFinal err: %v", err)
	}
	if ttl := rdb.TTL(ctx, key).Val(); ttl <= 0 || ttl > ttlWant {
		t.Fatalf("final TTL out of range: got %v want <= %v", ttl, ttlWant)
	}
	got, err := loadEntry(ctx, rdb, key)
	if err != nil {
		t.Fatalf("load after final err: %v", err)
	}
	if got.Code != 200 || string(got.Body) != `{"success":true}` || got.InProgress {
		t.Fatalf("final entry mismatch: %+v", got)
	}
}
