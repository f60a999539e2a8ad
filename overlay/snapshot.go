package overlay

// Snapshot is a read-only view of the overlay state.
type Snapshot struct {
	X             int    `json:"x"`
	Y             int    `json:"y"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Padding       int    `json:"padding"`
	Lines         int    `json:"lines"`
	Align         string `json:"align"`
	Text          string `json:"text"`
	FontFamily    string `json:"fontFamily"`
	FontSize      int    `json:"fontSize"`
	FontWeight    int    `json:"fontWeight"`
	Bold          bool   `json:"bold"`
	TextColor     string `json:"textColor"`
	TextOpacity   int    `json:"textOpacity"`
	StrokeWidth   int    `json:"strokeWidth"`
	StrokeColor   string `json:"strokeColor"`
	BackdropColor string `json:"backdropColor"`
	BackdropAlpha int    `json:"backdropAlpha"`
	ClickThrough  bool   `json:"clickThrough"`
	LineHeight    int    `json:"lineHeight"`
	Backdrop      string `json:"backdropState"`
	TextSurface   string `json:"textState"`
	Visible       bool   `json:"visible"`
}

// Snapshot returns the current state.
func (o *Overlay) Snapshot() Snapshot {
	s := o.style
	snap := Snapshot{
		X:             s.Position.X,
		Y:             s.Position.Y,
		Width:         s.Width(),
		Height:        s.Height(),
		Padding:       s.Padding,
		Lines:         s.Lines(),
		Align:         s.Align.String(),
		Text:          s.Text,
		FontFamily:    s.FontFamily(),
		FontSize:      s.FontSize(),
		FontWeight:    s.Weight(),
		Bold:          s.Bold(),
		TextColor:     s.TextColor.String(),
		TextOpacity:   int(s.TextOpacity()),
		StrokeWidth:   s.StrokeWidth(),
		StrokeColor:   s.StrokeColor.String(),
		BackdropColor: s.BackdropColor.String(),
		BackdropAlpha: int(s.BackdropAlpha()),
		ClickThrough:  s.ClickThrough,
		Backdrop:      o.backdrop.state.String(),
		TextSurface:   o.text.state.String(),
		Visible:       o.Visible(),
	}
	if o.face != nil {
		snap.LineHeight = o.face.LineHeight()
	}
	return snap
}
