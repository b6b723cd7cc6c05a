package tui

import (
	"fmt"

	"github.com/ChristianF88/radixsort/ingestor"
	"github.com/ChristianF88/radixsort/output"
	"github.com/ChristianF88/radixsort/radix"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// App represents the TUI application
type App struct {
	app       *tview.Application
	pages     *tview.Pages
	statusBar *tview.TextView

	// Results panels
	summary        *tview.TextView
	rounds         *tview.TextView
	preview        *tview.TextView
	diagnostics    *tview.TextView
	focusableItems []tview.Primitive
	currentFocus   int

	digitView    *tview.TextView
	currentRound int

	result    *output.JSONOutput
	histogram *radix.Histogram
	sorted    []uint32
	format    ingestor.Format
}

var panelNames = []string{"Rounds", "Sorted Keys", "Diagnostics"}

// NewApp creates the inspect UI for an already sorted key set.
func NewApp(result *output.JSONOutput, h *radix.Histogram, sorted []uint32, format ingestor.Format) *App {
	a := &App{
		app:       tview.NewApplication(),
		pages:     tview.NewPages(),
		result:    result,
		histogram: h,
		sorted:    sorted,
		format:    format,
	}
	a.setupUI()
	a.displayResults()
	return a
}

// setupUI initializes the user interface
func (a *App) setupUI() {
	a.statusBar = tview.NewTextView().SetDynamicColors(true)
	a.statusBar.SetBorder(false)

	a.summary = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	a.summary.SetBorder(true).SetTitle(" Summary ").SetTitleAlign(tview.AlignLeft)

	a.rounds = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	a.rounds.SetBorder(true)

	a.preview = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	a.preview.SetBorder(true)

	a.diagnostics = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	a.diagnostics.SetBorder(true)

	a.focusableItems = []tview.Primitive{a.rounds, a.preview, a.diagnostics}
	a.currentFocus = 0
	a.updateFocusBorders()

	bottomRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(a.rounds, 0, 2, false).
		AddItem(a.preview, 0, 1, false).
		AddItem(a.diagnostics, 0, 1, false)

	results := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.summary, 9, 0, false).
		AddItem(bottomRow, 0, 1, false).
		AddItem(a.statusBar, 1, 0, false)

	a.digitView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	a.digitView.SetBorder(true).SetTitleAlign(tview.AlignCenter)

	digits := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.digitView, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.pages.AddPage("results", results, true, true)
	a.pages.AddPage("digits", digits, true, false)

	a.app.SetInputCapture(a.handleKey)
	a.app.SetRoot(a.pages, true)
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Rune() {
	case 'q', 'Q':
		a.app.Stop()
		return nil
	case 'r', 'R':
		a.pages.SwitchToPage("results")
		a.updateStatusBar()
		return nil
	case 'v', 'V':
		a.showDigits()
		return nil
	}

	frontPageName, _ := a.pages.GetFrontPage()
	switch frontPageName {
	case "results":
		switch event.Key() {
		case tcell.KeyTab:
			a.nextFocus()
			return nil
		case tcell.KeyBacktab:
			a.prevFocus()
			return nil
		case tcell.KeyDown:
			scroll(a.getFocusedItem(), 1)
			return nil
		case tcell.KeyUp:
			scroll(a.getFocusedItem(), -1)
			return nil
		case tcell.KeyPgDn:
			scroll(a.getFocusedItem(), 10)
			return nil
		case tcell.KeyPgUp:
			scroll(a.getFocusedItem(), -10)
			return nil
		}
	case "digits":
		switch event.Key() {
		case tcell.KeyLeft:
			a.currentRound = (a.currentRound - 1 + radix.Rounds) % radix.Rounds
			a.renderDigits()
			return nil
		case tcell.KeyRight:
			a.currentRound = (a.currentRound + 1) % radix.Rounds
			a.renderDigits()
			return nil
		}
	}

	return event
}

func scroll(p tview.Primitive, delta int) {
	tv, ok := p.(*tview.TextView)
	if !ok {
		return
	}
	row, col := tv.GetScrollOffset()
	row += delta
	if row < 0 {
		row = 0
	}
	tv.ScrollTo(row, col)
}

// Run starts the TUI application
func (a *App) Run() error {
	return a.app.Run()
}

func (a *App) displayResults() {
	a.summary.SetText(buildSummaryText(a.result))
	a.rounds.SetText(buildRoundsText(a.histogram))
	a.preview.SetText(buildPreviewText(a.sorted, a.format, previewLimit))
	a.diagnostics.SetText(buildDiagnosticsText(a.result))
	a.updateStatusBar()
}

func (a *App) showDigits() {
	a.renderDigits()
	a.pages.SwitchToPage("digits")
	a.updateStatusBar()
}

func (a *App) renderDigits() {
	a.digitView.SetTitle(fmt.Sprintf(" Round %d (bits %d-%d) ", a.currentRound, 8*a.currentRound, 8*a.currentRound+7))
	a.digitView.SetText(renderDigitGrid(a.histogram, a.currentRound))
	a.updateStatusBar()
}

// Navigation helper functions
func (a *App) nextFocus() {
	a.currentFocus = (a.currentFocus + 1) % len(a.focusableItems)
	a.updateFocusBorders()
	a.updateStatusBar()
}

func (a *App) prevFocus() {
	a.currentFocus = (a.currentFocus - 1 + len(a.focusableItems)) % len(a.focusableItems)
	a.updateFocusBorders()
	a.updateStatusBar()
}

func (a *App) getFocusedItem() tview.Primitive {
	if a.currentFocus >= 0 && a.currentFocus < len(a.focusableItems) {
		return a.focusableItems[a.currentFocus]
	}
	return nil
}

func (a *App) updateFocusBorders() {
	for i, item := range a.focusableItems {
		if tv, ok := item.(*tview.TextView); ok {
			if i == a.currentFocus {
				tv.SetBorderColor(tcell.ColorYellow).SetTitle(fmt.Sprintf(" [::b]%s[FOCUSED] ", panelNames[i]))
			} else {
				tv.SetBorderColor(tcell.ColorDefault).SetTitle(fmt.Sprintf(" %s ", panelNames[i]))
			}
		}
	}
}

func (a *App) updateStatusBar() {
	frontPageName, _ := a.pages.GetFrontPage()

	switch frontPageName {
	case "digits":
		a.statusBar.SetText(fmt.Sprintf("[green]Digit view[white] | Round %d/%d | ←→: change round, ↑↓: scroll, 'r': results, 'q': quit",
			a.currentRound+1, radix.Rounds))
	default:
		a.statusBar.SetText(fmt.Sprintf("[green]Inspect[white] | [yellow]%s[white] focused | Tab/Shift+Tab: switch panels, ↑↓: scroll, 'v': digits, 'q': quit",
			panelNames[a.currentFocus]))
	}
}
