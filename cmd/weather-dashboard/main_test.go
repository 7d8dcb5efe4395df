package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
)

func TestExecuteClosesDepsOnFailure(t *testing.T) {
	st := store.New(store.NewMemoryBackend(0))
	errBoom := errors.New("listen failed")

	cmd := &cobra.Command{
		Use:           "serve",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(*cobra.Command, []string) error {
			deps = &app{
				store:     st,
				refresher: scheduler.New(func(context.Context) error { return nil }, time.Second),
			}
			return errBoom
		},
	}
	cmd.SetArgs([]string{})

	if err := execute(context.Background(), cmd); !errors.Is(err, errBoom) {
		t.Fatalf("expected command error, got %v", err)
	}
	if deps != nil {
		t.Fatalf("expected deps released")
	}
	if _, err := st.Favorites(context.Background()); err == nil {
		t.Fatalf("expected store closed after failed command")
	}
}
