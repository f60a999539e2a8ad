package control

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/NaveLIL/lyrics-overlay/logger"
	"github.com/NaveLIL/lyrics-overlay/overlay"
)

// Runner executes a function on the UI loop and waits for it.
// *overlay.Loop implements it.
type Runner interface {
	Do(fn func()) error
}

// LogSource returns recent log entries. *logger.Logger implements it.
type LogSource interface {
	Recent(limit int, levels ...string) []logger.LogEntry
}

// Dispatcher executes commands against an overlay on the UI loop.
type Dispatcher struct {
	ui   Runner
	ov   *overlay.Overlay
	logs LogSource
	log  *logrus.Entry
}

// NewDispatcher creates a dispatcher. logs may be nil, in which case
// recentLog returns no entries.
func NewDispatcher(ui Runner, ov *overlay.Overlay, logs LogSource) *Dispatcher {
	return &Dispatcher{
		ui:   ui,
		ov:   ov,
		logs: logs,
		log:  logger.Get().Component("control"),
	}
}

// Call decodes and executes one call. A non-nil error is always a *Error.
func (d *Dispatcher) Call(method string, raw any) (any, error) {
	cmd, err := Decode(method, raw)
	if err != nil {
		d.log.WithField("method", method).Warnf("Rejected call: %v", err)
		return nil, err
	}
	return d.Execute(cmd)
}

// Execute runs cmd. A non-nil error is always a *Error.
func (d *Dispatcher) Execute(cmd Command) (any, error) {
	if rl, ok := cmd.(RecentLog); ok {
		return d.recentLog(rl), nil
	}

	var (
		result any
		err    error
	)
	if lerr := d.ui.Do(func() { result, err = execute(d.ov, cmd) }); lerr != nil {
		return nil, &Error{Code: CodeInternal, Message: lerr.Error()}
	}
	if err != nil {
		ce := toError(err)
		d.log.WithFields(logrus.Fields{
			"method": cmd.Method(),
			"code":   ce.Code,
		}).Warnf("Call failed: %s", ce.Message)
		return nil, ce
	}
	d.log.WithField("method", cmd.Method()).Debug("Call executed")
	return result, nil
}

func (d *Dispatcher) recentLog(rl RecentLog) []logger.LogEntry {
	if d.logs == nil {
		return []logger.LogEntry{}
	}
	var entries []logger.LogEntry
	if rl.Level != "" {
		entries = d.logs.Recent(rl.Limit, rl.Level)
	} else {
		entries = d.logs.Recent(rl.Limit)
	}
	if entries == nil {
		entries = []logger.LogEntry{}
	}
	return entries
}

// execute runs on the UI loop.
func execute(o *overlay.Overlay, cmd Command) (any, error) {
	switch c := cmd.(type) {
	case CreateWindow:
		return true, o.Create()
	case DestroyWindow:
		o.Destroy()
		return true, nil
	case Show:
		return true, o.Show()
	case Hide:
		o.Hide()
		return true, nil
	case Redraw:
		return true, o.Redraw()
	case GetState:
		return o.Snapshot(), nil

	case SetText:
		return true, o.SetText(c.Text)
	case SetFontFamily:
		return true, o.SetFontFamily(c.Family)
	case SetFontSize:
		return true, o.SetFontSize(c.Points)
	case SetFontWeight:
		return true, o.SetFontWeight(c.Weight)
	case SetBold:
		return true, o.SetBold(c.Enabled)
	case SetTextColor:
		return true, o.SetTextColor(c.Color)
	case SetStroke:
		col := o.Style().StrokeColor
		if c.Color != nil {
			col = *c.Color
		}
		return true, o.SetStroke(c.Width, col)
	case SetTextAlign:
		return true, o.SetTextAlign(c.Align)
	case SetTextOpacity:
		return true, o.SetTextOpacity(c.Alpha)
	case SetOverlayOpacity:
		return true, o.SetOverlayOpacity(c.Alpha)
	case SetOverlayColor:
		return true, o.SetBackdropColor(c.Color)
	case SetPadding:
		return true, o.SetPadding(c.Padding)
	case SetPosition:
		return true, o.SetPosition(c.X, c.Y)
	case SetWidth:
		return true, o.SetWidth(c.Width)
	case SetLines:
		return true, o.SetLines(c.Lines)
	case SetClickThrough:
		return true, o.SetClickThrough(c.Enabled)
	}
	return nil, &Error{Code: CodeNotImplemented, Message: fmt.Sprintf("method %q", cmd.Method())}
}
