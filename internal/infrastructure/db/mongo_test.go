package db

import (
	"context"
	"testing"
	"time"
)

func TestOpenMongo_InvalidURI(t *testing.T) {
	if _, err := OpenMongo(context.Background(), "not-a-mongo-uri", "kamikaya_db"); err == nil {
		t.Fatal("expected error for malformed uri")
	}
}

func TestOpenMongo_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if _, err := OpenMongo(ctx, "mongodb://127.0.0.1:1", "kamikaya_db"); err == nil {
		t.Fatal("expected ping failure for unreachable server")
	}
}
