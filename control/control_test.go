package control

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/NaveLIL/lyrics-overlay/fonts"
	"github.com/NaveLIL/lyrics-overlay/headless"
	"github.com/NaveLIL/lyrics-overlay/logger"
	"github.com/NaveLIL/lyrics-overlay/overlay"
	"github.com/NaveLIL/lyrics-overlay/style"
)

func TestDecodeAliases(t *testing.T) {
	tests := []struct {
		method string
		args   any
		want   Command
	}{
		{"createLyricsWindow", nil, CreateWindow{}},
		{"hideLyricsWindow", nil, Hide{}},
		{"setLyricsText", map[string]any{"text": "la la"}, SetText{Text: "la la"}},
		{"setLyricsText", "bare", SetText{Text: "bare"}},
		{"setLyricsFontSize", map[string]any{"points": 22.6}, SetFontSize{Points: 23}},
		{"setFontSize", json.Number("18"), SetFontSize{Points: 18}},
		{"setLyricsFontWeight", "semibold", SetFontWeight{Weight: 600}},
		{"setFontWeight", map[string]any{"weight": "粗"}, SetFontWeight{Weight: 700}},
		{"setFontWeight", 1200, SetFontWeight{Weight: 900}},
		{"setLyricsBold", map[string]any{"enabled": "1"}, SetBold{Enabled: true}},
		{"setLyricsTextColor", map[string]any{"color": "#00FF00"}, SetTextColor{Color: style.RGB(0x00FF00)}},
		{"setTextColor", "0x80FF0000", SetTextColor{Color: style.RGB(0xFF0000)}},
		{"setTextColor", float64(0x0000FF), SetTextColor{Color: style.RGB(0x0000FF)}},
		{"setLyricsTextAlign", "center", SetTextAlign{Align: style.AlignCenter}},
		{"setTextAlign", 2, SetTextAlign{Align: style.AlignRight}},
		{"setLyricsPosition", map[string]any{"x": "10", "y": 20}, SetPosition{X: 10, Y: 20}},
		{"setOverlayWidth", 640, SetWidth{Width: 640}},
		{"setOverlayLines", map[string]any{"count": 2}, SetLines{Lines: 2}},
		{"setOverlayClickThrough", true, SetClickThrough{Enabled: true}},
		{"setPadding", 12, SetPadding{Padding: 12}},
		{"setOverlayPadding", map[string]any{"padding": "4"}, SetPadding{Padding: 4}},
		{"setOverlayColor", "#102030", SetOverlayColor{Color: style.RGB(0x102030)}},
		{"setOverlayColor", map[string]any{"backdropColor": "#FFFFFF"}, SetOverlayColor{Color: style.RGB(0xFFFFFF)}},
		{"recentLog", nil, RecentLog{Limit: DefaultRecentLogLimit}},
		{"recentLog", map[string]any{"limit": 5, "level": "error"}, RecentLog{Limit: 5, Level: "error"}},
	}

	for _, tt := range tests {
		got, err := Decode(tt.method, tt.args)
		if err != nil {
			t.Errorf("%s(%v): unexpected error %v", tt.method, tt.args, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s(%v): expected %#v, got %#v", tt.method, tt.args, tt.want, got)
		}
	}
}

func TestDecodeStroke(t *testing.T) {
	cmd, err := Decode("setLyricsStroke", map[string]any{"width": 2, "color": "#112233"})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	s := cmd.(SetStroke)
	if s.Width != 2 || s.Color == nil || *s.Color != style.RGB(0x112233) {
		t.Errorf("Unexpected stroke %+v", s)
	}

	cmd, err = Decode("setStroke", 3)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s := cmd.(SetStroke); s.Width != 3 || s.Color != nil {
		t.Errorf("Expected width only, got %+v", s)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		method string
		args   any
		code   string
		field  string
	}{
		{"setTextColor", map[string]any{"color": "#GG0000"}, CodeBadArgs, "textColor"},
		{"setTextColor", nil, CodeBadArgs, "textColor"},
		{"setFontSize", "big", CodeBadArgs, "fontSize"},
		{"setTextAlign", "diagonal", CodeBadArgs, "align"},
		{"setPosition", map[string]any{"x": 1}, CodeBadArgs, "y"},
		{"setPosition", 5, CodeBadArgs, "x"},
		{"setWidth", 0, CodeBadArgs, "width"},
		{"setWidth", style.MaxWidth + 1, CodeBadArgs, "width"},
		{"setWidth", int64(1) << 36, CodeBadArgs, "width"},
		{"setWidth", json.Number("2305843009213693952"), CodeBadArgs, "width"},
		{"setPadding", -1, CodeBadArgs, "padding"},
		{"setPadding", style.MaxPadding + 1, CodeBadArgs, "padding"},
		{"setOverlayColor", "#ZZZZZZ", CodeBadArgs, "color"},
		{"setBold", "maybe", CodeBadArgs, "bold"},
		{"setText", []any{"a"}, CodeBadArgs, ""},
		{"spin", nil, CodeNotImplemented, ""},
	}

	for _, tt := range tests {
		_, err := Decode(tt.method, tt.args)
		var ce *Error
		if !errors.As(err, &ce) {
			t.Errorf("%s(%v): expected *Error, got %v", tt.method, tt.args, err)
			continue
		}
		if ce.Code != tt.code || ce.Field != tt.field {
			t.Errorf("%s(%v): expected %s/%q, got %s/%q", tt.method, tt.args, tt.code, tt.field, ce.Code, ce.Field)
		}
	}
}

type fixture struct {
	d  *Dispatcher
	ov *overlay.Overlay
	p  *headless.Platform
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p := headless.New(headless.Options{})
	ov, err := overlay.New(style.New(), p, fonts.NewBackend(fonts.Options{}))
	if err != nil {
		t.Fatalf("overlay.New: %v", err)
	}
	loop := overlay.NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	t.Cleanup(func() {
		loop.Do(ov.Close)
		cancel()
	})
	return &fixture{d: NewDispatcher(loop, ov, logger.Get()), ov: ov, p: p}
}

func (f *fixture) call(t *testing.T, method string, args any) any {
	t.Helper()
	res, err := f.d.Call(method, args)
	if err != nil {
		t.Fatalf("%s: %v", method, err)
	}
	return res
}

func (f *fixture) state(t *testing.T) overlay.Snapshot {
	t.Helper()
	return f.call(t, "getState", nil).(overlay.Snapshot)
}

func TestDispatcherWindowLifecycle(t *testing.T) {
	f := newFixture(t)

	if _, err := f.d.Call("redraw", nil); codeOf(err) != CodeNoWindow {
		t.Errorf("Expected no_window, got %v", err)
	}
	if res := f.call(t, "hideLyricsWindow", nil); res != true {
		t.Errorf("Expected hide without a window to succeed, got %v", res)
	}
	if res := f.call(t, "createLyricsWindow", nil); res != true {
		t.Errorf("Expected true, got %v", res)
	}
	if !f.state(t).Visible {
		t.Error("Expected visible overlay")
	}
	f.call(t, "redraw", nil)
	f.call(t, "destroyLyricsWindow", nil)
	if f.p.Len() != 0 {
		t.Errorf("Expected surfaces destroyed, got %d", f.p.Len())
	}
}

func TestDispatcherMalformedColorLeavesState(t *testing.T) {
	f := newFixture(t)
	f.call(t, "createWindow", nil)
	f.call(t, "setTextColor", "#336699")

	_, err := f.d.Call("setLyricsTextColor", map[string]any{"color": "#12345G"})
	if codeOf(err) != CodeBadArgs {
		t.Fatalf("Expected bad_args, got %v", err)
	}
	if got := f.state(t).TextColor; got != "#336699" {
		t.Errorf("Expected colour unchanged, got %s", got)
	}
}

func TestDispatcherOversizeWidthRejected(t *testing.T) {
	tests := []any{
		json.Number("2305843009213693952"),
		int64(1) << 36,
		style.MaxWidth + 1,
	}

	f := newFixture(t)
	f.call(t, "createWindow", nil)
	f.call(t, "setWidth", 640)

	for _, width := range tests {
		_, err := f.d.Call("setWidth", width)
		if codeOf(err) != CodeBadArgs {
			t.Errorf("setWidth(%v): expected bad_args, got %v", width, err)
		}
		if got := f.state(t).Width; got != 640 {
			t.Errorf("setWidth(%v): expected width 640, got %d", width, got)
		}
	}

	if res := f.call(t, "setText", "hello"); res != true {
		t.Errorf("Expected setText to succeed after rejected widths, got %v", res)
	}
	f.call(t, "setWidth", style.MaxWidth)
	if got := f.state(t).Width; got != style.MaxWidth {
		t.Errorf("Expected width %d, got %d", style.MaxWidth, got)
	}
}

func TestDispatcherPaddingAndOverlayColor(t *testing.T) {
	f := newFixture(t)
	f.call(t, "createWindow", nil)

	f.call(t, "setPadding", 20)
	f.call(t, "setOverlayColor", "#204060")

	s := f.state(t)
	if s.Padding != 20 {
		t.Errorf("Expected padding 20, got %d", s.Padding)
	}
	if s.BackdropColor != "#204060" {
		t.Errorf("Expected backdrop colour #204060, got %s", s.BackdropColor)
	}

	if _, err := f.d.Call("setOverlayColor", "#20406"); codeOf(err) != CodeBadArgs {
		t.Errorf("Expected bad_args, got %v", err)
	}
	if got := f.state(t).BackdropColor; got != "#204060" {
		t.Errorf("Expected backdrop colour unchanged, got %s", got)
	}
}

func TestDispatcherSetters(t *testing.T) {
	f := newFixture(t)
	f.call(t, "createWindow", nil)

	f.call(t, "setText", "Hello")
	f.call(t, "setFontSize", map[string]any{"fontSize": 20})
	f.call(t, "setBold", true)
	f.call(t, "setStroke", map[string]any{"width": 2, "color": "#0000FF"})
	f.call(t, "setStroke", 4)
	f.call(t, "setTextAlign", "right")
	f.call(t, "setTextOpacity", 200)
	f.call(t, "setOverlayOpacity", 300)
	f.call(t, "setPosition", map[string]any{"x": 12, "y": 34})
	f.call(t, "setWidth", 500)
	f.call(t, "setLines", 20)
	f.call(t, "setClickThrough", "true")

	s := f.state(t)
	if s.Text != "Hello" || s.FontSize != 20 || !s.Bold || s.FontWeight != 700 {
		t.Errorf("Unexpected font state %+v", s)
	}
	if s.StrokeWidth != 4 || s.StrokeColor != "#0000FF" {
		t.Errorf("Expected stroke 4 #0000FF, got %d %s", s.StrokeWidth, s.StrokeColor)
	}
	if s.Align != "right" || s.TextOpacity != 200 || s.BackdropAlpha != 255 {
		t.Errorf("Unexpected paint state %+v", s)
	}
	if s.X != 12 || s.Y != 34 || s.Width != 500 || s.Lines != 10 || !s.ClickThrough {
		t.Errorf("Unexpected geometry state %+v", s)
	}

	bd, _ := f.p.ByRole(overlay.RoleBackdrop)
	if bd.Alpha != 0 || !bd.InputTransparent {
		t.Errorf("Expected click-through backdrop, got alpha=%d transparent=%v", bd.Alpha, bd.InputTransparent)
	}
}

func TestDispatcherRecentLog(t *testing.T) {
	f := newFixture(t)
	logger.Get().Component("test").Error("recent log marker")

	res := f.call(t, "recentLog", map[string]any{"limit": 1, "level": "error"})
	entries := res.([]logger.LogEntry)
	if len(entries) != 1 || entries[0].Message != "recent log marker" {
		t.Errorf("Expected the marker entry, got %+v", entries)
	}
}

func TestServeJSONLines(t *testing.T) {
	f := newFixture(t)
	s := NewServer(f.d)

	in := strings.Join([]string{
		`{"id":1,"method":"createLyricsWindow"}`,
		`{"id":2,"method":"setLyricsFontSize","args":{"points":18}}`,
		`{"id":3,"method":"setTextColor","args":"nope"}`,
		`{"id":"x","method":"warp"}`,
		`{"id":4,"method":"getState"}`,
	}, "\n")
	var out strings.Builder
	if err := s.Serve(context.Background(), strings.NewReader(in), &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	var resps []map[string]any
	sc := bufio.NewScanner(strings.NewReader(out.String()))
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("Bad response line %q: %v", sc.Text(), err)
		}
		resps = append(resps, m)
	}
	if len(resps) != 5 {
		t.Fatalf("Expected 5 responses, got %d", len(resps))
	}
	if resps[0]["ok"] != true || resps[1]["ok"] != true {
		t.Errorf("Expected first calls to succeed, got %v %v", resps[0], resps[1])
	}
	if e := resps[2]["error"].(map[string]any); e["code"] != CodeBadArgs {
		t.Errorf("Expected bad_args, got %v", e)
	}
	if resps[3]["id"] != "x" || resps[3]["error"].(map[string]any)["code"] != CodeNotImplemented {
		t.Errorf("Expected not_implemented for id x, got %v", resps[3])
	}
	state := resps[4]["result"].(map[string]any)
	if state["fontSize"] != float64(18) {
		t.Errorf("Expected fontSize 18, got %v", state["fontSize"])
	}
}

func TestListenTCP(t *testing.T) {
	f := newFixture(t)
	s := NewServer(f.d)
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		s.Close()
	}()

	addr, err := s.Listen(ctx, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(`{"id":7,"method":"setLyricsText","args":"tcp"}` + "\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !resp.OK || string(resp.ID) != "7" {
		t.Errorf("Expected ok response for id 7, got %+v", resp)
	}
}

func codeOf(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
