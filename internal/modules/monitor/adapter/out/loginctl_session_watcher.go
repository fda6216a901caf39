package out

import (
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"deskcoach/internal/platform/apperrors"
)

const lockPollInterval = 2 * time.Second

// LoginctlSessionWatcher polls the systemd-logind LockedHint property to
// detect screen lock and unlock. On systems without loginctl or a session
// id, Start reports ErrUnsupported and the watcher stays unlocked.
type LoginctlSessionWatcher struct {
	logger *slog.Logger

	locked atomic.Bool

	mu        sync.Mutex
	stopCh    chan struct{}
	doneCh    chan struct{}
	sessionID string
}

func NewLoginctlSessionWatcher(logger *slog.Logger) *LoginctlSessionWatcher {
	return &LoginctlSessionWatcher{logger: logger}
}

func (w *LoginctlSessionWatcher) Start(onChange func(locked bool)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopCh != nil {
		return nil
	}

	sessionID := os.Getenv("XDG_SESSION_ID")
	if sessionID == "" {
		return apperrors.ErrUnsupported
	}
	if _, err := exec.LookPath("loginctl"); err != nil {
		return apperrors.ErrUnsupported
	}
	w.sessionID = sessionID

	initial, err := w.lockedHint()
	if err != nil {
		return apperrors.ErrUnsupported
	}
	w.locked.Store(initial)

	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	go w.poll(w.stopCh, w.doneCh, onChange)
	return nil
}

func (w *LoginctlSessionWatcher) Stop() {
	w.mu.Lock()
	stopCh, doneCh := w.stopCh, w.doneCh
	w.stopCh, w.doneCh = nil, nil
	w.mu.Unlock()
	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh
}

func (w *LoginctlSessionWatcher) Unlocked() bool {
	return !w.locked.Load()
}

func (w *LoginctlSessionWatcher) poll(stopCh, doneCh chan struct{}, onChange func(locked bool)) {
	defer close(doneCh)
	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
		}
		locked, err := w.lockedHint()
		if err != nil {
			w.logger.Debug("loginctl poll failed", "error", err)
			continue
		}
		if w.locked.CompareAndSwap(!locked, locked) {
			onChange(locked)
		}
	}
}

func (w *LoginctlSessionWatcher) lockedHint() (bool, error) {
	out, err := exec.Command("loginctl", "show-session", w.sessionID, "-p", "LockedHint", "--value").Output()
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(out)) == "yes", nil
}
