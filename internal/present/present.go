package present

import "context"

// Presenter displays an announcement and reports which action the user
// chose. The index refers to the ordered label list passed in. The
// second return is false when the host dismissed the message without a
// selection; in that case no action is dispatched.
type Presenter interface {
	Present(ctx context.Context, title, body string, labels []string) (int, bool, error)
}

// Opener opens a URI with whatever the host considers the system handler.
type Opener interface {
	OpenURI(uri string) error
}
