package desktop

import (
	"context"
	"errors"
	"slices"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"RateScope/internal/board"
	"RateScope/internal/rates"
)

const updatedFlash = 3 * time.Second

// RatesWindow is the fyne view of the rate converter.
type RatesWindow struct {
	window     fyne.Window
	ctrl       *RatesController
	rows       []rates.Rate
	table      *widget.Table
	status     *widget.Label
	updated    *widget.Label
	refreshBtn *widget.Button
	amount     *widget.Entry
	currency   *widget.Select
	result     *widget.Label
	flash      *time.Timer
}

// NewRatesWindow builds the window. The controller is created with the
// window as its view.
func NewRatesWindow(a fyne.App, fetch func(context.Context) ([]rates.Rate, error), opts Options) *RatesWindow {
	opts.Dispatch = fyne.Do
	w := &RatesWindow{window: a.NewWindow("TWD exchange rates")}
	w.ctrl = NewRatesController(fetch, w, opts)
	w.build()
	return w
}

func (w *RatesWindow) build() {
	w.status = widget.NewLabel("ready")
	w.updated = widget.NewLabel("last update: -")
	w.refreshBtn = widget.NewButton("Refresh", nil)

	w.table = widget.NewTable(
		func() (int, int) { return len(w.rows) + 1, 3 },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(w.cell(id.Row, id.Col))
		},
	)
	w.table.SetColumnWidth(0, 160)
	w.table.SetColumnWidth(1, 100)
	w.table.SetColumnWidth(2, 100)

	w.amount = widget.NewEntry()
	w.amount.SetText("1000")
	w.currency = widget.NewSelect(nil, nil)
	w.currency.PlaceHolder = "currency"
	w.result = widget.NewLabel("")
	w.result.Wrapping = fyne.TextWrapWord
	calc := widget.NewButton("Calculate", w.calculate)

	converter := container.NewVBox(
		widget.NewLabelWithStyle("Converter", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Amount (TWD)", w.amount),
			widget.NewFormItem("Currency", w.currency),
		),
		calc,
		w.result,
	)

	top := container.NewBorder(nil, nil, w.status, container.NewHBox(w.updated, w.refreshBtn))
	split := container.NewHSplit(w.table, converter)
	split.Offset = 0.55
	w.window.SetContent(container.NewBorder(top, nil, nil, nil, split))
	w.window.Resize(fyne.NewSize(820, 520))
}

func (w *RatesWindow) cell(row, col int) string {
	if row == 0 {
		return [...]string{"Currency", "Buy", "Sell"}[col]
	}
	r := w.rows[row-1]
	switch col {
	case 0:
		return r.Name + " (" + r.Code + ")"
	case 1:
		return r.Buy
	default:
		return r.Sell
	}
}

func (w *RatesWindow) calculate() {
	text, err := w.ctrl.Convert(w.amount.Text, w.currency.Selected)
	if err != nil {
		dialog.ShowError(err, w.window)
		return
	}
	w.result.SetText(text)
}

// ShowAndRun starts the controller and blocks until the window closes.
func (w *RatesWindow) ShowAndRun(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	w.window.SetOnClosed(cancel)
	w.refreshBtn.OnTapped = func() { w.ctrl.Refresh(ctx) }
	w.ctrl.Start(ctx)
	w.window.ShowAndRun()
}

func (w *RatesWindow) Render(st board.State[rates.Rate], selectable []string) {
	w.rows = st.Items
	w.table.Refresh()
	if !st.UpdatedAt.IsZero() {
		w.updated.SetText("last update: " + st.UpdatedAt.Format(time.TimeOnly))
	}
	if st.Busy {
		w.status.SetText("updating...")
		w.refreshBtn.Disable()
	} else {
		w.refreshBtn.Enable()
		if w.flash == nil {
			w.status.SetText(st.Status(time.Now()))
		}
	}

	selected := w.currency.Selected
	w.currency.Options = selectable
	w.currency.Refresh()
	switch {
	case slices.Contains(selectable, selected):
	case slices.Contains(selectable, "USD"):
		w.currency.SetSelected("USD")
	case len(selectable) > 0:
		w.currency.SetSelected(selectable[0])
	default:
		w.currency.ClearSelected()
	}
}

func (w *RatesWindow) Notify(title, message string) {
	dialog.ShowInformation(title, message, w.window)
}

func (w *RatesWindow) Fail(message string) {
	dialog.ShowError(errors.New(message), w.window)
}

func (w *RatesWindow) Updated() {
	w.status.SetText("updated")
	if w.flash != nil {
		w.flash.Stop()
	}
	w.flash = time.AfterFunc(updatedFlash, func() {
		fyne.Do(func() {
			w.flash = nil
			w.status.SetText("ready")
		})
	})
}
