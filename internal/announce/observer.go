package announce

import "github.com/smeier/announce/internal/model"

// ShownFunc is notified after a message has been presented.
type ShownFunc func(messageID int)

// TouchedFunc is notified when the user chooses an action. It receives
// the full action descriptor exactly as fetched from the server.
type TouchedFunc func(messageID int, action model.Action)

// observers holds the registered notification hooks. Delivery is
// synchronous, in registration order, at most once per event.
type observers struct {
	shown   []ShownFunc
	touched []TouchedFunc
}

func (o *observers) notifyShown(id int) {
	for _, fn := range o.shown {
		fn(id)
	}
}

func (o *observers) notifyTouched(id int, action model.Action) {
	for _, fn := range o.touched {
		fn(id, action)
	}
}
