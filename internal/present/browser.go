package present

import (
	"fmt"

	"github.com/pkg/browser"
)

// BrowserOpener opens URIs with the operating system's default handler.
type BrowserOpener struct{}

// OpenURI hands uri to the system browser.
func (BrowserOpener) OpenURI(uri string) error {
	if err := browser.OpenURL(uri); err != nil {
		return fmt.Errorf("opening %s: %w", uri, err)
	}
	return nil
}
