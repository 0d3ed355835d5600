package announce

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"github.com/smeier/announce/internal/fetch"
	"github.com/smeier/announce/internal/ledger"
	"github.com/smeier/announce/internal/model"
	"github.com/smeier/announce/internal/present"
)

// Config holds the per-engine settings supplied by the host application.
type Config struct {
	// URLTemplate is the announcement document location, with optional
	// __VERSION__ and __LANGUAGE__ placeholders. Required.
	URLTemplate string

	// ShowOnFirstLaunch controls whether the very first run of this
	// installation may fetch and show a message. When false, the first
	// run is suppressed before any network call.
	ShowOnFirstLaunch bool

	// Runtime supplies the placeholder substitution values.
	Runtime RuntimeContext
}

// Engine sequences one announcement check: first-launch policy, fetch,
// parse, validate, dedup, present, record. One check runs at a time;
// Show returns ErrShowInFlight if called reentrantly.
type Engine struct {
	cfg        Config
	fetcher    fetch.Fetcher
	presenter  present.Presenter
	ledger     *ledger.Ledger
	dispatcher *Dispatcher
	log        *slog.Logger

	obs  observers
	busy atomic.Bool

	// current is the single-slot cache of the most recently fetched
	// message, owned by the in-flight Show invocation. It exists to
	// resolve the chosen action's full descriptor after presentation.
	current *model.Message
}

// New creates an Engine with its collaborators. A nil log falls back to
// slog.Default().
func New(
	cfg Config,
	fetcher fetch.Fetcher,
	presenter present.Presenter,
	opener present.Opener,
	led *ledger.Ledger,
	log *slog.Logger,
) *Engine {
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{
		cfg:       cfg,
		fetcher:   fetcher,
		presenter: presenter,
		ledger:    led,
		log:       log,
	}
	e.dispatcher = NewDispatcher(opener, e.obs.notifyTouched, log)
	return e
}

// OnMessageShown registers fn to be called after a message has been
// presented. Register before calling Show.
func (e *Engine) OnMessageShown(fn ShownFunc) {
	e.obs.shown = append(e.obs.shown, fn)
}

// OnButtonTouched registers fn to be called when the user chooses an
// action. Register before calling Show.
func (e *Engine) OnButtonTouched(fn TouchedFunc) {
	e.obs.touched = append(e.obs.touched, fn)
}

// Show runs one announcement check. The only caller-visible failures
// are the missing-template precondition and reentrant invocation;
// network, decode and validation problems end the invocation silently
// after being logged, so a future Show can try again.
func (e *Engine) Show(ctx context.Context) error {
	if e.cfg.URLTemplate == "" {
		return ErrNoTemplate
	}

	if !e.busy.CompareAndSwap(false, true) {
		return ErrShowInFlight
	}
	defer e.busy.Store(false)

	first, err := e.ledger.IsFirstLaunch(ctx)
	if err != nil {
		e.log.Error("reading first-launch state", "error", err)
		return nil
	}
	if first {
		// Persist unconditionally: first-launch suppression must never
		// repeat, whatever happens to the rest of this invocation.
		if err := e.ledger.MarkLaunched(ctx); err != nil {
			e.log.Error("persisting first-launch state", "error", err)
			return nil
		}
		if !e.cfg.ShowOnFirstLaunch {
			e.log.Info("first launch, announcement check suppressed")
			return nil
		}
	}

	url, err := ResolveURL(e.cfg.URLTemplate, e.cfg.Runtime)
	if err != nil {
		e.log.Warn("resolving announcement URL", "error", err)
		return nil
	}

	body, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		e.log.Warn("fetching announcement", "url", url, "error", err)
		return nil
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		e.log.Warn("decoding announcement", "url", url, "error", err)
		return nil
	}

	if !ValidPayload(payload) {
		e.log.Warn("announcement payload failed validation", "url", url)
		return nil
	}

	msg := model.MessageFromPayload(payload.(map[string]any))
	e.current = &msg

	lastID, seen, err := e.ledger.LastShownID(ctx)
	if err != nil {
		e.log.Error("reading last shown id", "error", err)
		return nil
	}
	if seen && lastID == msg.ID {
		e.log.Debug("announcement already shown", "message_id", msg.ID)
		return nil
	}

	labels := make([]string, 0, len(msg.Actions))
	for _, a := range msg.Actions {
		labels = append(labels, a.Label)
	}

	selected, chosen, err := e.presenter.Present(ctx, msg.Title, msg.Body, labels)
	if err != nil {
		e.log.Error("presenting announcement", "message_id", msg.ID, "error", err)
		return nil
	}

	e.obs.notifyShown(msg.ID)

	if err := e.ledger.RecordShown(ctx, msg); err != nil {
		e.log.Error("recording shown announcement", "message_id", msg.ID, "error", err)
	}

	if chosen && selected >= 0 && selected < len(e.current.Actions) {
		e.dispatcher.Dispatch(e.current.ID, e.current.Actions[selected])
	}

	return nil
}
