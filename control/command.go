// Package control decodes overlay commands and serves them over a
// JSON-lines connection.
package control

import (
	"fmt"

	"github.com/NaveLIL/lyrics-overlay/style"
)

// Command is a decoded control call. The concrete types below are the only
// implementations.
type Command interface {
	Method() string
}

type (
	CreateWindow  struct{}
	DestroyWindow struct{}
	Show          struct{}
	Hide          struct{}
	Redraw        struct{}
	GetState      struct{}

	SetText       struct{ Text string }
	SetFontFamily struct{ Family string }
	SetFontSize   struct{ Points int }
	SetFontWeight struct{ Weight int }
	SetBold       struct{ Enabled bool }
	SetTextColor  struct{ Color style.Color }
	// SetStroke keeps the current stroke colour when Color is nil.
	SetStroke struct {
		Width int
		Color *style.Color
	}
	SetTextAlign      struct{ Align style.Align }
	SetTextOpacity    struct{ Alpha int }
	SetOverlayOpacity struct{ Alpha int }
	SetOverlayColor   struct{ Color style.Color }
	SetPadding        struct{ Padding int }
	SetPosition       struct{ X, Y int }
	SetWidth          struct{ Width int }
	SetLines          struct{ Lines int }
	SetClickThrough   struct{ Enabled bool }

	// RecentLog reads the in-memory log sink. Level filters entries when set.
	RecentLog struct {
		Limit int
		Level string
	}
)

func (CreateWindow) Method() string      { return "createWindow" }
func (DestroyWindow) Method() string     { return "destroyWindow" }
func (Show) Method() string              { return "show" }
func (Hide) Method() string              { return "hide" }
func (Redraw) Method() string            { return "redraw" }
func (GetState) Method() string          { return "getState" }
func (SetText) Method() string           { return "setText" }
func (SetFontFamily) Method() string     { return "setFontFamily" }
func (SetFontSize) Method() string       { return "setFontSize" }
func (SetFontWeight) Method() string     { return "setFontWeight" }
func (SetBold) Method() string           { return "setBold" }
func (SetTextColor) Method() string      { return "setTextColor" }
func (SetStroke) Method() string         { return "setStroke" }
func (SetTextAlign) Method() string      { return "setTextAlign" }
func (SetTextOpacity) Method() string    { return "setTextOpacity" }
func (SetOverlayOpacity) Method() string { return "setOverlayOpacity" }
func (SetOverlayColor) Method() string   { return "setOverlayColor" }
func (SetPadding) Method() string        { return "setPadding" }
func (SetPosition) Method() string       { return "setPosition" }
func (SetWidth) Method() string          { return "setWidth" }
func (SetLines) Method() string          { return "setLines" }
func (SetClickThrough) Method() string   { return "setClickThrough" }
func (RecentLog) Method() string         { return "recentLog" }

// DefaultRecentLogLimit is the number of entries recentLog returns when no
// limit is given.
const DefaultRecentLogLimit = 50

// aliases maps the method names used by the lyrics controller to their
// canonical names.
var aliases = map[string]string{
	"createLyricsWindow":     "createWindow",
	"destroyLyricsWindow":    "destroyWindow",
	"showLyricsWindow":       "show",
	"hideLyricsWindow":       "hide",
	"setLyricsText":          "setText",
	"setLyricsFontFamily":    "setFontFamily",
	"setLyricsFontSize":      "setFontSize",
	"setLyricsFontWeight":    "setFontWeight",
	"setLyricsBold":          "setBold",
	"setLyricsTextColor":     "setTextColor",
	"setLyricsStroke":        "setStroke",
	"setLyricsTextAlign":     "setTextAlign",
	"setLyricsTextOpacity":   "setTextOpacity",
	"setLyricsPosition":      "setPosition",
	"setOverlayWidth":        "setWidth",
	"setOverlayLines":        "setLines",
	"setOverlayPadding":      "setPadding",
	"setOverlayClickThrough": "setClickThrough",
}

type decodeFunc func(a args) (Command, *Error)

var decoders = map[string]decodeFunc{
	"createWindow":  func(args) (Command, *Error) { return CreateWindow{}, nil },
	"destroyWindow": func(args) (Command, *Error) { return DestroyWindow{}, nil },
	"show":          func(args) (Command, *Error) { return Show{}, nil },
	"hide":          func(args) (Command, *Error) { return Hide{}, nil },
	"redraw":        func(args) (Command, *Error) { return Redraw{}, nil },
	"getState":      func(args) (Command, *Error) { return GetState{}, nil },

	"setText": func(a args) (Command, *Error) {
		s, err := a.str(true, "text")
		return SetText{Text: s}, err
	},
	"setFontFamily": func(a args) (Command, *Error) {
		s, err := a.str(true, "family", "fontFamily")
		return SetFontFamily{Family: s}, err
	},
	"setFontSize": func(a args) (Command, *Error) {
		n, err := a.integer(true, "fontSize", "points", "size")
		return SetFontSize{Points: n}, err
	},
	"setFontWeight": func(a args) (Command, *Error) {
		v, ok := a.one("weight", "fontWeight")
		if !ok {
			return nil, missing("weight")
		}
		w, err := style.ParseWeight(v)
		if err != nil {
			return nil, badArgs("weight", err)
		}
		return SetFontWeight{Weight: w}, nil
	},
	"setBold": func(a args) (Command, *Error) {
		b, err := a.boolean(true, "bold", "enabled")
		return SetBold{Enabled: b}, err
	},
	"setTextColor": func(a args) (Command, *Error) {
		c, err := a.color(true, "textColor", "color")
		return SetTextColor{Color: c}, err
	},
	"setStroke": func(a args) (Command, *Error) {
		w, err := a.integer(true, "width", "strokeWidth")
		if err != nil {
			return nil, err
		}
		cmd := SetStroke{Width: w}
		if _, ok := a.get("color", "strokeColor"); ok {
			c, err := a.color(false, "color", "strokeColor")
			if err != nil {
				return nil, err
			}
			cmd.Color = &c
		}
		return cmd, nil
	},
	"setTextAlign": func(a args) (Command, *Error) {
		v, ok := a.one("align", "textAlign")
		if !ok {
			return nil, missing("align")
		}
		al, err := style.ParseAlign(v)
		if err != nil {
			return nil, badArgs("align", err)
		}
		return SetTextAlign{Align: al}, nil
	},
	"setTextOpacity": func(a args) (Command, *Error) {
		n, err := a.integer(true, "alpha", "opacity")
		return SetTextOpacity{Alpha: n}, err
	},
	"setOverlayOpacity": func(a args) (Command, *Error) {
		n, err := a.integer(true, "alpha", "opacity")
		return SetOverlayOpacity{Alpha: n}, err
	},
	"setOverlayColor": func(a args) (Command, *Error) {
		c, err := a.color(true, "color", "backdropColor")
		return SetOverlayColor{Color: c}, err
	},
	"setPadding": func(a args) (Command, *Error) {
		n, err := a.integer(true, "padding")
		if err != nil {
			return nil, err
		}
		if n < 0 || n > style.MaxPadding {
			return nil, &Error{Code: CodeBadArgs, Field: "padding",
				Message: fmt.Sprintf("padding must be between 0 and %d", style.MaxPadding)}
		}
		return SetPadding{Padding: n}, nil
	},
	"setPosition": func(a args) (Command, *Error) {
		x, err := a.integer(false, "x")
		if err != nil {
			return nil, err
		}
		y, err := a.integer(false, "y")
		if err != nil {
			return nil, err
		}
		return SetPosition{X: x, Y: y}, nil
	},
	"setWidth": func(a args) (Command, *Error) {
		n, err := a.integer(true, "width")
		if err != nil {
			return nil, err
		}
		if n <= 0 || n > style.MaxWidth {
			return nil, &Error{Code: CodeBadArgs, Field: "width",
				Message: fmt.Sprintf("width must be between 1 and %d", style.MaxWidth)}
		}
		return SetWidth{Width: n}, nil
	},
	"setLines": func(a args) (Command, *Error) {
		n, err := a.integer(true, "lines", "count")
		return SetLines{Lines: n}, err
	},
	"setClickThrough": func(a args) (Command, *Error) {
		b, err := a.boolean(true, "enabled", "clickThrough")
		return SetClickThrough{Enabled: b}, err
	},
	"recentLog": func(a args) (Command, *Error) {
		cmd := RecentLog{Limit: DefaultRecentLogLimit}
		if _, ok := a.one("limit"); ok {
			n, err := a.integer(true, "limit")
			if err != nil {
				return nil, err
			}
			cmd.Limit = n
		}
		if _, ok := a.get("level"); ok {
			s, err := a.str(false, "level")
			if err != nil {
				return nil, err
			}
			cmd.Level = s
		}
		return cmd, nil
	},
}

// Canonical resolves an alias to its canonical method name.
func Canonical(method string) string {
	if c, ok := aliases[method]; ok {
		return c
	}
	return method
}

// Decode builds a Command from a method name and its arguments. Arguments
// are a map keyed by field name or, for single-field methods, a bare value.
// The returned error is always a *Error.
func Decode(method string, raw any) (Command, error) {
	dec, ok := decoders[Canonical(method)]
	if !ok {
		return nil, &Error{Code: CodeNotImplemented, Message: fmt.Sprintf("unknown method %q", method)}
	}
	a, err := newArgs(raw)
	if err != nil {
		return nil, err
	}
	cmd, err := dec(a)
	if err != nil {
		return nil, err
	}
	return cmd, nil
}
