package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/modsmith/modsmith/pkg/review"
	"github.com/modsmith/modsmith/pkg/session"
)

// tuiSurfaces implements the session's interactive surfaces with bubbletea.
type tuiSurfaces struct{}

// Run executes fn behind a modal spinner. The "s" key cancels fn's context;
// the modal closes when fn returns.
func (tuiSurfaces) Run(ctx context.Context, title string, fn func(ctx context.Context) error) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewProgressModel(title, cancel))

	errCh := make(chan error, 1)
	go func() {
		errCh <- fn(runCtx)
		p.Send(progressDoneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-errCh
		return err
	}
	return <-errCh
}

func (tuiSurfaces) Error(msg string) {
	printError("%s", msg)
	waitForAck()
}

func (tuiSurfaces) Warn(msg string) {
	for _, line := range strings.Split(msg, "\n") {
		printWarning("%s", line)
	}
	waitForAck()
}

func (tuiSurfaces) Review(rows []review.Row) (review.Decision, error) {
	final, err := tea.NewProgram(NewReviewModel(rows)).Run()
	if err != nil {
		return review.Decision{}, err
	}
	m, ok := final.(ReviewModel)
	if !ok {
		return review.Decision{}, fmt.Errorf("unexpected review model type %T", final)
	}
	return m.Decision(), nil
}

func waitForAck() {
	fmt.Print(StyleDim.Render("  press enter to continue"))
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
	fmt.Println()
}

// plainSurfaces is the non-interactive fallback used by --yes: a plain
// spinner for progress, stderr prints for messages, and a review that
// approves everything.
type plainSurfaces struct{}

func (plainSurfaces) Run(ctx context.Context, title string, fn func(ctx context.Context) error) error {
	s := newSpinnerWithContext(ctx, title)
	s.Start()
	err := fn(ctx)
	s.Stop()
	return err
}

func (plainSurfaces) Error(msg string) { printError("%s", msg) }

func (plainSurfaces) Warn(msg string) {
	for _, line := range strings.Split(msg, "\n") {
		printWarning("%s", line)
	}
}

func (plainSurfaces) Review(rows []review.Row) (review.Decision, error) {
	for _, row := range rows {
		suffix := ""
		if len(row.RequiredBy) > 0 {
			suffix = StyleDim.Render(" (required by " + strings.Join(row.RequiredBy, ", ") + ")")
		}
		printDetail("%s %s %s%s", row.Name, row.FileName, styleProvider.Render(row.Provider), suffix)
	}
	return review.Decision{Approved: true}, nil
}

var (
	_ session.ProgressSurface = tuiSurfaces{}
	_ session.MessageSurface  = tuiSurfaces{}
	_ session.ReviewSurface   = tuiSurfaces{}
	_ session.ProgressSurface = plainSurfaces{}
	_ session.MessageSurface  = plainSurfaces{}
	_ session.ReviewSurface   = plainSurfaces{}
)
