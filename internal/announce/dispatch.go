package announce

import (
	"log/slog"

	"github.com/smeier/announce/internal/model"
	"github.com/smeier/announce/internal/present"
)

// actionHandler performs the built-in side effect for one action kind.
type actionHandler func(action model.Action) error

// Dispatcher interprets a chosen action. Observers are always notified
// first; the kind's built-in side effect (if any) runs afterward.
// Unknown kinds have no side effect beyond the notification.
type Dispatcher struct {
	notify   func(messageID int, action model.Action)
	handlers map[string]actionHandler
	log      *slog.Logger
}

// NewDispatcher builds a Dispatcher that notifies via notify and opens
// url-kind targets with opener.
func NewDispatcher(
	opener present.Opener,
	notify func(messageID int, action model.Action),
	log *slog.Logger,
) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	d := &Dispatcher{
		notify: notify,
		log:    log,
	}
	d.handlers = map[string]actionHandler{
		model.ActionKindURL: func(action model.Action) error {
			return opener.OpenURI(action.Target)
		},
	}
	return d
}

// Dispatch runs the chosen action for the given message. Failures of
// the side effect are logged, never propagated: the notification
// already happened and the invocation is over either way.
func (d *Dispatcher) Dispatch(messageID int, action model.Action) {
	if d.notify != nil {
		d.notify(messageID, action)
	}

	handler, ok := d.handlers[action.Kind]
	if !ok {
		d.log.Debug("no side effect for action kind",
			"kind", action.Kind, "message_id", messageID)
		return
	}

	if err := handler(action); err != nil {
		d.log.Error("action side effect failed",
			"kind", action.Kind, "message_id", messageID, "error", err)
	}
}
