package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/codeduelhq/codeduel-backend/internal/entity"
)

type matchHistory interface {
	Recent(ctx context.Context, limit int) ([]*entity.Match, error)
}

func Start(logger *slog.Logger, port string, history matchHistory) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", pingHandler)
	mux.HandleFunc("/history/recent", recentMatchesHandler(logger, history))

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
