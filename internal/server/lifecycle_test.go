package server

import (
	"context"
	"testing"
	"time"

	"github.com/jackzampolin/presence/internal/api"
	"github.com/jackzampolin/presence/internal/config"
	"github.com/jackzampolin/presence/internal/server/endpoints"
	"github.com/jackzampolin/presence/internal/testutil"
)

// TestServer_Lifecycle starts a real listener, drives it through the API
// client and shuts it down by cancelling the context.
func TestServer_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	t.Setenv("OPENAI_API_KEY", "")

	tc := testutil.NewServerConfig(t)
	if err := config.WriteDefault(tc.ConfigFile); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	cfgMgr, err := config.NewManager(tc.ConfigFile, tc.HomeDir)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	srv, err := New(Config{
		Host:          tc.Host,
		Port:          tc.Port,
		ConfigManager: cfgMgr,
		Logger:        tc.Logger,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()
	starter := testutil.StartServer{Cancel: cancel}
	defer starter.Stop()

	if err := testutil.WaitForServer(tc.URL(), 10*time.Second); err != nil {
		t.Fatalf("server did not start: %v", err)
	}
	if !srv.IsRunning() {
		t.Error("IsRunning() = false after start")
	}

	client := api.NewClient(tc.URL())
	if err := client.WaitReady(ctx, 3, 50*time.Millisecond); err != nil {
		t.Fatalf("WaitReady() error = %v", err)
	}

	t.Run("double start", func(t *testing.T) {
		if err := srv.Start(ctx); err == nil {
			t.Error("second Start() should return error")
		}
	})

	t.Run("session round trip", func(t *testing.T) {
		var sess endpoints.SessionResponse
		if err := client.Post(ctx, "/api/sessions", nil, &sess); err != nil {
			t.Fatalf("create session: %v", err)
		}
		var hist endpoints.HistoryResponse
		if err := client.Get(ctx, "/api/sessions/"+sess.ID+"/history", &hist); err != nil {
			t.Fatalf("list history: %v", err)
		}
		if hist.Total != 0 {
			t.Errorf("new session has %d history items", hist.Total)
		}
		err := client.Get(ctx, "/api/sessions/unknown", nil)
		if !api.IsStatus(err, 404) {
			t.Errorf("unknown session error = %v, want 404", err)
		}
	})

	cancel()
	if err := testutil.WaitForShutdown(done, 10*time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
}
