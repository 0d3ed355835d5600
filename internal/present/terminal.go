package present

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	colorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// titleStyle renders the announcement headline as a banner.
var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorWhite).
	Background(colorBlue).
	Padding(0, 1)

// bodyStyle wraps the announcement text in a bordered panel.
var bodyStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorBorder)

// TerminalPresenter shows announcements in the terminal: a styled
// banner followed by a select prompt for the message's actions.
type TerminalPresenter struct {
	// Out defaults to stdout; tests can redirect it.
	Out io.Writer
}

// Present renders the message and blocks until the user picks an action
// or aborts the prompt.
func (p *TerminalPresenter) Present(
	ctx context.Context,
	title, body string,
	labels []string,
) (int, bool, error) {
	out := p.Out
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprintln(out, titleStyle.Render(title))
	fmt.Fprintln(out, bodyStyle.Render(body))

	options := make([]huh.Option[int], 0, len(labels))
	for i, label := range labels {
		options = append(options, huh.NewOption(label, i))
	}

	var choice int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(title).
				Options(options...).
				Value(&choice),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("running announcement prompt: %w", err)
	}

	return choice, true, nil
}
