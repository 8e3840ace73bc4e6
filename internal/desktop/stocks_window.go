package desktop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"RateScope/internal/board"
	"RateScope/internal/collector"
	"RateScope/internal/quotes"
)

// StocksWindow is the fyne view of the watchlist.
type StocksWindow struct {
	window fyne.Window
	ctrl   *StocksController
	ctx    context.Context

	listings  []collector.Listing
	selected  int
	list      *widget.List
	listState *widget.Label
	search    *widget.Entry
	status    *widget.Label
	updated   *widget.Label
	updateBtn *widget.Button
	auto      *widget.Check
	cards     *fyne.Container
}

// NewStocksWindow builds the window and its controller.
func NewStocksWindow(a fyne.App, deps StocksDeps, opts Options) *StocksWindow {
	opts.Dispatch = fyne.Do
	w := &StocksWindow{window: a.NewWindow("Stock watchlist"), selected: -1, ctx: context.Background()}
	w.ctrl = NewStocksController(deps, w, opts)
	w.build()
	return w
}

func (w *StocksWindow) build() {
	w.status = widget.NewLabel("ready")
	w.updated = widget.NewLabel("last update: -")
	w.updateBtn = widget.NewButton("Update", func() { w.ctrl.Update(w.ctx) })
	w.auto = widget.NewCheck(fmt.Sprintf("Auto update (%ds)", int(w.ctrl.interval.Seconds())), func(on bool) {
		if err := w.ctrl.SetAutoUpdate(w.ctx, on); err != nil {
			dialog.ShowError(err, w.window)
		}
	})
	toolbar := container.NewHBox(w.updateBtn, w.auto, widget.NewSeparator(), w.status, w.updated)

	w.search = widget.NewEntry()
	w.search.SetPlaceHolder("search code or name")
	w.search.OnChanged = w.ctrl.Search
	w.listState = widget.NewLabel("")
	w.list = widget.NewList(
		func() int { return len(w.listings) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(w.listings[id].Label())
		},
	)
	w.list.OnSelected = func(id widget.ListItemID) { w.selected = id }
	w.list.OnUnselected = func(widget.ListItemID) { w.selected = -1 }
	add := widget.NewButton("Add to watchlist", w.addSelected)
	left := container.NewBorder(container.NewVBox(w.search, w.listState), add, nil, nil, w.list)

	w.cards = container.NewVBox()
	right := container.NewVScroll(w.cards)

	split := container.NewHSplit(left, right)
	split.Offset = 0.3
	w.window.SetContent(container.NewBorder(toolbar, nil, nil, nil, split))
	w.window.Resize(fyne.NewSize(1000, 640))
}

func (w *StocksWindow) addSelected() {
	if w.selected < 0 || w.selected >= len(w.listings) {
		dialog.ShowInformation("Nothing selected", "Pick a stock from the list first.", w.window)
		return
	}
	l := w.listings[w.selected]
	if err := w.ctrl.Add(w.ctx, l.Code); err != nil {
		if errors.Is(err, quotes.ErrAlreadyWatched) {
			dialog.ShowInformation("Already watched", l.Label()+" is already in the watchlist.", w.window)
			return
		}
		dialog.ShowError(err, w.window)
	}
}

// ShowAndRun starts the controller and blocks until the window closes.
func (w *StocksWindow) ShowAndRun(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	w.ctx = ctx
	w.window.SetOnClosed(cancel)
	w.ctrl.Start(ctx)
	w.window.ShowAndRun()
}

func (w *StocksWindow) RenderListings(listings []collector.Listing, status string) {
	w.listings = listings
	w.selected = -1
	w.list.UnselectAll()
	w.list.Refresh()
	w.listState.SetText(status)
}

func (w *StocksWindow) RenderCards(cards []quotes.Card, st board.State[quotes.Quote]) {
	if st.Busy {
		w.status.SetText("updating...")
		w.updateBtn.Disable()
	} else {
		w.status.SetText(st.Status(time.Now()))
		w.updateBtn.Enable()
	}
	if !st.UpdatedAt.IsZero() {
		w.updated.SetText("last update: " + st.UpdatedAt.Format(time.TimeOnly))
	}

	w.cards.RemoveAll()
	if len(cards) == 0 {
		w.cards.Add(widget.NewLabel("Your watchlist is empty. Search for a stock on the left and add it."))
	}
	for _, c := range cards {
		w.cards.Add(w.card(c))
	}
	w.cards.Refresh()
}

func (w *StocksWindow) card(c quotes.Card) fyne.CanvasObject {
	code := c.Code
	remove := widget.NewButton("Remove", func() { w.ctrl.Remove(code) })
	if c.Waiting() {
		return widget.NewCard(code, "waiting for data", remove)
	}

	q := c.Quote
	price := widget.NewLabelWithStyle(q.Price, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	change := widget.NewLabel(fmt.Sprintf("%s %s (%s)", q.Direction().Marker(), q.Change, q.ChangeRate))
	// Taiwanese quotes show rises in red.
	switch q.Direction() {
	case quotes.Up:
		change.Importance = widget.DangerImportance
	case quotes.Down:
		change.Importance = widget.SuccessImportance
	}
	details := container.NewGridWithColumns(2,
		widget.NewLabel("Open "+q.Open), widget.NewLabel("High "+q.High),
		widget.NewLabel("Low "+q.Low), widget.NewLabel("Prev close "+q.PrevClose),
		widget.NewLabel("Volume "+q.Volume), widget.NewLabel("Quote "+q.QuoteTime),
	)
	body := container.NewVBox(
		container.NewHBox(price, change),
		details,
		container.NewBorder(nil, nil, widget.NewLabel("updated "+q.UpdateTime), remove),
	)
	return widget.NewCard(q.Title(), "", body)
}

func (w *StocksWindow) Notify(title, message string) {
	dialog.ShowInformation(title, message, w.window)
}

func (w *StocksWindow) Fail(message string) {
	dialog.ShowError(errors.New(message), w.window)
}
