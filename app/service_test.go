package app

import (
	"path/filepath"
	"testing"

	"github.com/gmahli/fsaas/config"
)

func TestNewWiresService(t *testing.T) {
	cfg := config.Default()
	cfg.Auth.SessionPath = filepath.Join(t.TempDir(), "session.json")

	svc, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	}()

	if got := len(svc.Store.Vehicles()); got != 5 {
		t.Fatalf("seeded %d vehicles, want 5", got)
	}
	if svc.Auth.CheckAuth() {
		t.Fatal("fresh service should start unauthenticated")
	}
	if svc.Engine == nil || svc.Runner == nil {
		t.Fatal("engine or runner missing")
	}
}

func TestNewRestoresPersistedSession(t *testing.T) {
	cfg := config.Default()
	cfg.Auth.SessionPath = filepath.Join(t.TempDir(), "session.json")

	first, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !first.Auth.Login("manager-gautam@demo.com", "mahli@123") {
		t.Fatal("login failed")
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = second.Close() }()
	if !second.Auth.CheckAuth() {
		t.Fatal("session not restored across restarts")
	}
}
