package report

import "fmt"

// Window is the inclusive range of day offsets around the reference date.
// Offset 0 is "today".
type Window struct {
	From int
	To   int
}

// MaxWindowDays bounds a single run so a misconfiguration cannot fan out
// thousands of upstream requests per station.
const MaxWindowDays = 31

func DefaultWindow() Window {
	return Window{From: -2, To: 6}
}

// NewWindow builds the window from a look-back and a look-ahead count, the
// way the generator is configured: daysBack=2, days=7 gives -2..+6.
func NewWindow(daysBack, days int) Window {
	return Window{From: -daysBack, To: days - 1}
}

// InvalidWindowError is returned when a window is empty, excludes today or
// is too long.
type InvalidWindowError struct {
	Message string
}

func (e *InvalidWindowError) Error() string {
	return e.Message
}

func (w Window) Validate() error {
	if w.From > w.To {
		return &InvalidWindowError{Message: fmt.Sprintf("window start %d is after end %d", w.From, w.To)}
	}
	if w.From > 0 || w.To < 0 {
		return &InvalidWindowError{Message: fmt.Sprintf("window %d..%d does not include today", w.From, w.To)}
	}
	if w.Len() > MaxWindowDays {
		return &InvalidWindowError{Message: fmt.Sprintf("window of %d days exceeds maximum of %d", w.Len(), MaxWindowDays)}
	}
	return nil
}

func (w Window) Len() int {
	return w.To - w.From + 1
}

// Offsets lists the day offsets in ascending order.
func (w Window) Offsets() []int {
	offsets := make([]int, 0, w.Len())
	for o := w.From; o <= w.To; o++ {
		offsets = append(offsets, o)
	}
	return offsets
}
