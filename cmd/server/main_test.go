package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"zapp/internal/auth"
	"zapp/internal/config"
	"zapp/internal/db"
	"zapp/internal/feed"
	"zapp/internal/testutil"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	tok := strings.TrimSpace(run(t, "token", "u1", "--name", "Asha", "--email", "asha@example.com"))
	p, err := auth.ParseFromMD(testutil.CtxWithBearer(context.Background(), tok), "cli-secret")
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if p.UserID != "u1" || p.Name != "Asha" || p.Email != "asha@example.com" {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestMigrateDownThenUp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zapp.db")
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("DB_PATH", path)
	t.Setenv("LOG_MODE", "stdout")

	run(t, "migrate", "up")
	run(t, "migrate", "down")

	d, err := db.Open(path, db.WithoutMigrations())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	v, err := db.CurrentVersion(d)
	_ = d.Close()
	if err != nil || v != 0 {
		t.Fatalf("expected version 0 after down, got %d %v", v, err)
	}

	run(t, "migrate", "up")
	d, err = db.Open(path, db.WithoutMigrations())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer d.Close()
	if v, err := db.CurrentVersion(d); err != nil || v != 1 {
		t.Fatalf("expected version 1 after up, got %d %v", v, err)
	}
}

func TestOpenFeedDefaultsToMemory(t *testing.T) {
	b, err := openFeed(context.Background(), &config.Config{Feed: config.FeedConfig{Driver: "memory"}}, nil)
	if err != nil {
		t.Fatalf("openFeed: %v", err)
	}
	defer b.Close()
	if _, ok := b.(*feed.MemoryBroker); !ok {
		t.Fatalf("expected memory broker, got %T", b)
	}
}
