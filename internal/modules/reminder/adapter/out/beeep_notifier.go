package out

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

// BeeepNotifier delivers desktop notifications. Delivery is best-effort:
// failures are logged and dropped, a missed reminder repeats on the next
// cadence tick anyway.
type BeeepNotifier struct {
	logger    *slog.Logger
	playSound bool
}

func NewBeeepNotifier(logger *slog.Logger, playSound bool) *BeeepNotifier {
	return &BeeepNotifier{logger: logger, playSound: playSound}
}

func (n *BeeepNotifier) Notify(title, message string) {
	if err := beeep.Notify(title, message, ""); err != nil {
		n.logger.Debug("notification delivery failed", "title", title, "error", err)
		return
	}
	if n.playSound {
		if err := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
			n.logger.Debug("notification sound failed", "error", err)
		}
	}
}
