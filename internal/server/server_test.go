package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOnShutdown_RunsInReverseOrder(t *testing.T) {
	s := New(http.NotFoundHandler(), Config{Port: 0, ShutdownTimeout: time.Second}, testLogger())

	var order []string
	for _, name := range []string{"redis", "postgres"} {
		s.OnShutdown(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	if err := s.gracefulShutdown(); err != nil {
		t.Fatalf("gracefulShutdown: %v", err)
	}

	if len(order) != 2 || order[0] != "postgres" || order[1] != "redis" {
		t.Fatalf("shutdown order = %v, want [postgres redis]", order)
	}
}

func TestOnShutdown_CollectsErrors(t *testing.T) {
	s := New(http.NotFoundHandler(), Config{ShutdownTimeout: time.Second}, testLogger())

	errA := errors.New("a failed")
	ran := false
	s.OnShutdown("a", func(context.Context) error { return errA })
	s.OnShutdown("b", func(context.Context) error { ran = true; return nil })

	err := s.gracefulShutdown()
	if !errors.Is(err, errA) {
		t.Fatalf("expected errA, got %v", err)
	}
	if !ran {
		t.Error("later component skipped after an earlier error")
	}
}

func TestRun_StopsWhenContextCancelled(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	s := New(http.NotFoundHandler(), Config{Port: port, ShutdownTimeout: time.Second}, testLogger())
	closed := make(chan struct{})
	s.OnShutdown("pool", func(context.Context) error { close(closed); return nil })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	select {
	case <-closed:
	default:
		t.Error("shutdown hook not called")
	}
}
