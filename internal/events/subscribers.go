package events

import (
	"context"
	"log/slog"

	"advisory_portal/platform/logger"
)

// RegisterAuditLog subscribes a handler that writes every domain event to the log.
func RegisterAuditLog(bus Bus, log *logger.Logger) {
	bus.Subscribe(NameIntakeSubmitted, HandlerFunc(func(ctx context.Context, event Event) error {
		e, ok := event.(IntakeSubmitted)
		if !ok {
			return nil
		}
		log.WithContext(ctx).Info("intake submitted",
			slog.String("event_id", e.ID),
			slog.String("province", e.Province),
			slog.String("investable_assets", e.InvestableAssets),
			slog.String("preferred_date", e.PreferredDate),
		)
		return nil
	}))

	bus.Subscribe(NameLeadActionSucceeded, HandlerFunc(func(ctx context.Context, event Event) error {
		e, ok := event.(LeadActionSucceeded)
		if !ok {
			return nil
		}
		log.WithContext(ctx).Info("lead action accepted",
			slog.String("event_id", e.ID),
			slog.String("action", e.Action),
			slog.String("lead_id", e.LeadID),
			slog.String("by", e.Operator),
		)
		return nil
	}))

	bus.Subscribe(NameLeadActionFailed, HandlerFunc(func(ctx context.Context, event Event) error {
		e, ok := event.(LeadActionFailed)
		if !ok {
			return nil
		}
		log.WithContext(ctx).Warn("lead action failed",
			slog.String("event_id", e.ID),
			slog.String("action", e.Action),
			slog.String("lead_id", e.LeadID),
			slog.String("by", e.Operator),
			slog.String("reason", e.Reason),
			slog.Bool("removed_from_view", e.RemovedFromView),
		)
		return nil
	}))
}
