package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matheuskafuri/marketpulse/internal/logger"
)

func TestRegisterRefreshInvalidSpec(t *testing.T) {
	s := New(logger.Nop())
	err := s.RegisterRefresh(context.Background(), "not a cron", time.Second, func(context.Context) error { return nil })
	if err == nil {
		t.Error("expected error for invalid spec")
	}
}

func TestRefreshRuns(t *testing.T) {
	s := New(logger.Nop())
	var runs atomic.Int32
	done := make(chan struct{}, 1)
	err := s.RegisterRefresh(context.Background(), "* * * * * *", time.Second, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("expected a deadline on the run context")
		}
		if runs.Add(1) == 1 {
			done <- struct{}{}
		}
		return errors.New("ignored")
	})
	if err != nil {
		t.Fatalf("RegisterRefresh: %v", err)
	}
	s.Start()
	defer s.Stop()

	if s.Next().IsZero() {
		t.Error("expected a next run time")
	}
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("refresh did not run within 3s")
	}
}

func TestNextEmpty(t *testing.T) {
	if !New(logger.Nop()).Next().IsZero() {
		t.Error("expected zero time with no jobs")
	}
}
