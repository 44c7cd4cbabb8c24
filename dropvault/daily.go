package dropvault

import (
	"context"
	"log/slog"
	"time"

	"github.com/dropvault/dropvault/dropvault/ledger"
)

// RunDailyGrants credits every account once per calendar day. It fires once
// at startup to cover a grant missed while the process was down, then at
// every midnight in the configured location. The ledger's own date guard
// makes the startup run a no-op when today's grant already happened.
func RunDailyGrants(ctx context.Context, l *ledger.Ledger, amount int64, loc *time.Location, log *slog.Logger) error {
	grant := func() {
		granted, err := l.GrantDailyToAll(amount, loc)
		if err != nil {
			log.Error("daily grant failed", slog.Any("error", err))
			return
		}
		if granted > 0 {
			log.Info("daily grant applied",
				slog.Int("accounts", granted),
				slog.Int64("amount", amount))
		}
	}

	grant()
	for {
		now := time.Now().In(loc)
		next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			grant()
		}
	}
}
