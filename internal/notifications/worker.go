package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/riverqueue/river"
)

// TripEventWorker delivers trip events to the configured webhook. When no
// webhook URL is configured events are logged and dropped.
type TripEventWorker struct {
	river.WorkerDefaults[TripEventArgs]
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewTripEventWorker(webhookURL string, logger *slog.Logger) *TripEventWorker {
	return &TripEventWorker{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

func (w *TripEventWorker) Work(ctx context.Context, job *river.Job[TripEventArgs]) error {
	args := job.Args

	if w.webhookURL == "" {
		w.logger.Info("trip event (no webhook configured)",
			slog.String("event", args.Event),
			slog.String("trip_id", args.TripID),
			slog.String("actor_id", args.ActorID),
		)
		return nil
	}

	body, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to marshal trip event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error calling webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d for event %s", resp.StatusCode, args.Event)
	}

	w.logger.Debug("trip event delivered",
		slog.String("event", args.Event),
		slog.String("trip_id", args.TripID),
	)
	return nil
}
