package tui

import (
	"context"

	"github.com/nguyentantai21042004/recap-flow/internal/logger"
	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

// FollowPlain logs each event as a line until the final one, for quiet or
// non-interactive runs. It returns the final event.
func FollowPlain(ctx context.Context, events <-chan models.ProgressEvent, log logger.Logger) models.ProgressEvent {
	for ev := range events {
		switch {
		case ev.Final() && ev.Phase == models.PhaseFailed:
			log.Error(ctx, "[%3.0f%%] %s: %s", ev.Percent, ev.Status, ev.Step)
		case ev.Err != "":
			log.Warn(ctx, "[%3.0f%%] %s: %s (%s)", ev.Percent, ev.Status, ev.Step, ev.Err)
		default:
			log.Info(ctx, "[%3.0f%%] %s: %s", ev.Percent, ev.Status, ev.Step)
		}
		if ev.Final() {
			return ev
		}
	}
	return models.ProgressEvent{}
}
