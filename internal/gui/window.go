package gui

import (
	"context"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/elmella/ez-tweet/internal/app"
	"github.com/elmella/ez-tweet/internal/draft"
)

const (
	appID        = "com.elmella.ez-tweet"
	windowTitle  = "ez_tweet"
	windowWidth  = 520
	windowHeight = 320

	statusPosting    = "Posting..."
	statusDryRun     = "Logging (dry-run)..."
	statusDryRunDone = "Logged locally (dry-run)."
)

// Window is the posting window: a text box, a live character counter, and
// a Post button.
type Window struct {
	app    *app.App
	window fyne.Window

	entry      *widget.Entry
	counter    *widget.Label
	status     *widget.Label
	postButton *widget.Button

	// posting is only touched on the Fyne main thread (event handlers
	// and fyne.Do callbacks), so it needs no lock.
	posting bool
}

// Run opens the posting window and blocks until it is closed.
func Run(a *app.App) {
	fyneApp := fyneapp.NewWithID(appID)
	w := newWindow(fyneApp, a)
	w.window.ShowAndRun()
}

func newWindow(fyneApp fyne.App, a *app.App) *Window {
	w := &Window{
		app:    a,
		window: fyneApp.NewWindow(windowTitle),
	}

	w.entry = widget.NewMultiLineEntry()
	w.entry.Wrapping = fyne.TextWrapWord
	w.entry.OnChanged = w.refreshCounter

	w.counter = widget.NewLabel(counterText(a.MaxLength))
	w.counter.Alignment = fyne.TextAlignTrailing

	w.postButton = widget.NewButton("Post", w.handlePost)
	w.postButton.Importance = widget.HighImportance

	w.status = widget.NewLabel("")
	w.status.Alignment = fyne.TextAlignCenter
	w.status.Importance = widget.LowImportance

	bottom := container.NewVBox(
		w.counter,
		container.NewCenter(w.postButton),
		w.status,
	)

	w.window.SetContent(container.NewPadded(
		container.NewBorder(nil, bottom, nil, nil, w.entry),
	))
	w.window.Resize(fyne.NewSize(windowWidth, windowHeight))
	w.window.CenterOnScreen()

	return w
}

// refreshCounter updates the live counter and gates the Post button while
// the draft is over the limit.
func (w *Window) refreshCounter(text string) {
	remaining := draft.Remaining(text, w.app.MaxLength)
	w.counter.SetText(counterText(remaining))

	if remaining < 0 || w.posting {
		w.postButton.Disable()
	} else {
		w.postButton.Enable()
	}
}

// handlePost validates the draft, then posts from a goroutine so the
// window stays responsive. The button stays disabled until the attempt
// finishes.
func (w *Window) handlePost() {
	text := w.entry.Text

	if _, err := draft.Validate(text, w.app.MaxLength); err != nil {
		w.status.SetText("")
		dialog.ShowError(err, w.window)
		return
	}

	w.posting = true
	w.postButton.Disable()
	if w.app.DryRun {
		w.status.SetText(statusDryRun)
	} else {
		w.status.SetText(statusPosting)
	}

	go func() {
		result, err := w.app.Post(context.Background(), text)

		fyne.Do(func() {
			w.posting = false
			w.refreshCounter(w.entry.Text)

			if err != nil {
				slog.Error("failed to post update", "error", err)
				w.status.SetText("")
				dialog.ShowError(err, w.window)
				return
			}
			w.status.SetText(successStatus(w.app.DryRun, result.PostID))
		})
	}()
}

// counterText renders the remaining-characters label.
func counterText(remaining int) string {
	if remaining < 0 {
		return fmt.Sprintf("over by %d", -remaining)
	}
	if remaining == 1 {
		return "1 character left"
	}
	return fmt.Sprintf("%d characters left", remaining)
}

// successStatus renders the status line after a successful attempt.
func successStatus(dryRun bool, postID string) string {
	if dryRun {
		return statusDryRunDone
	}
	return fmt.Sprintf("Posted! Tweet ID: %s", postID)
}
