//go:build windows

package win32

import (
	"fmt"
	"image"
	"sync"
	"unsafe"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"

	"github.com/NaveLIL/lyrics-overlay/logger"
	"github.com/NaveLIL/lyrics-overlay/overlay"
	"github.com/NaveLIL/lyrics-overlay/raster"
	"github.com/NaveLIL/lyrics-overlay/style"
)

const (
	className   = "LyricsOverlaySurface"
	windowTitle = "Lyrics Overlay"
)

var (
	registerOnce sync.Once
	registerErr  error
	classPtr     *uint16
	instance     uintptr

	// byHandle maps live surface handles to their platform for wndProc.
	windowsMu sync.Mutex
	byHandle  = make(map[uintptr]*Platform)
)

type surface struct {
	role  overlay.Role
	fill  style.Color
	alpha uint8
}

// Platform creates layered popup windows. It must be used from the thread
// that runs Pump, which is the UI loop thread.
type Platform struct {
	log      *logrus.Entry
	surfaces map[uintptr]*surface
	sink     overlay.EventSink
}

// NewPlatform registers the window class on first use.
func NewPlatform() (*Platform, error) {
	registerOnce.Do(registerClass)
	if registerErr != nil {
		return nil, registerErr
	}
	return &Platform{
		log:      logger.Get().Component("win32"),
		surfaces: make(map[uintptr]*surface),
	}, nil
}

func registerClass() {
	instance, _, _ = procGetModuleHandleW.Call(0)
	classPtr, registerErr = windows.UTF16PtrFromString(className)
	if registerErr != nil {
		return
	}
	wc := wndClassEx{
		WndProc:   windows.NewCallback(wndProc),
		Instance:  instance,
		ClassName: classPtr,
	}
	wc.Size = uint32(unsafe.Sizeof(wc))
	ret, _, err := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc)))
	if ret == 0 {
		registerErr = fmt.Errorf("RegisterClassExW: %w", callErr(err))
	}
}

func exStyle(ex overlay.ExStyle) uintptr {
	var v uintptr
	if ex&overlay.ExLayered != 0 {
		v |= WS_EX_LAYERED
	}
	if ex&overlay.ExTopmost != 0 {
		v |= WS_EX_TOPMOST
	}
	if ex&overlay.ExToolWindow != 0 {
		v |= WS_EX_TOOLWINDOW
	}
	if ex&overlay.ExNoActivate != 0 {
		v |= WS_EX_NOACTIVATE
	}
	return v
}

// CreateSurface implements overlay.Platform.
func (p *Platform) CreateSurface(role overlay.Role, ex overlay.ExStyle, bounds image.Rectangle) (overlay.Handle, error) {
	title, _ := windows.UTF16PtrFromString(windowTitle)
	hwnd, _, err := procCreateWindowExW.Call(
		exStyle(ex),
		uintptr(unsafe.Pointer(classPtr)),
		uintptr(unsafe.Pointer(title)),
		WS_POPUP,
		uintptr(bounds.Min.X), uintptr(bounds.Min.Y),
		uintptr(bounds.Dx()), uintptr(bounds.Dy()),
		0, 0, instance, 0,
	)
	if hwnd == 0 {
		return 0, fmt.Errorf("CreateWindowExW(%s): %w", ex, callErr(err))
	}

	p.surfaces[hwnd] = &surface{role: role}
	windowsMu.Lock()
	byHandle[hwnd] = p
	windowsMu.Unlock()
	p.log.WithField("role", role).Debugf("Window %#x created", hwnd)
	return overlay.Handle(hwnd), nil
}

// DestroySurface implements overlay.Platform.
func (p *Platform) DestroySurface(h overlay.Handle) error {
	hwnd := uintptr(h)
	windowsMu.Lock()
	delete(byHandle, hwnd)
	windowsMu.Unlock()
	delete(p.surfaces, hwnd)

	ret, _, err := procDestroyWindow.Call(hwnd)
	if ret == 0 {
		return fmt.Errorf("DestroyWindow: %w", callErr(err))
	}
	return nil
}

// ShowSurface implements overlay.Platform.
func (p *Platform) ShowSurface(h overlay.Handle, show bool) error {
	cmd := uintptr(swHide)
	if show {
		cmd = swShowNoActivate
	}
	// The return value is the previous visibility, not an error.
	procShowWindow.Call(uintptr(h), cmd)
	return nil
}

// SetBounds implements overlay.Platform. Inserting after a topmost window
// keeps h in the topmost band.
func (p *Platform) SetBounds(h overlay.Handle, bounds image.Rectangle, z overlay.ZOrder) error {
	var after uintptr
	flags := uintptr(swpNoActivate)
	switch {
	case z.Below != 0:
		after = uintptr(z.Below)
	case z.Raise:
		after = hwndTopmost
	default:
		flags |= swpNoZOrder
	}
	ret, _, err := procSetWindowPos.Call(
		uintptr(h), after,
		uintptr(bounds.Min.X), uintptr(bounds.Min.Y),
		uintptr(bounds.Dx()), uintptr(bounds.Dy()),
		flags,
	)
	if ret == 0 {
		return fmt.Errorf("SetWindowPos: %w", callErr(err))
	}
	return nil
}

// SetInputTransparent implements overlay.Platform.
func (p *Platform) SetInputTransparent(h overlay.Handle, on bool) error {
	hwnd := uintptr(h)
	ex, _, _ := procGetWindowLongPtrW.Call(hwnd, gwlExStyle())
	next := ex &^ WS_EX_TRANSPARENT
	if on {
		next |= WS_EX_TRANSPARENT
	}
	if next == ex {
		return nil
	}
	procSetLastError.Call(0)
	ret, _, err := procSetWindowLongPtrW.Call(hwnd, gwlExStyle(), next)
	if ret == 0 {
		if errno, ok := err.(windows.Errno); ok && errno != 0 {
			return fmt.Errorf("SetWindowLongPtrW: %w", errno)
		}
	}
	return nil
}

// SetBackdrop implements overlay.Platform.
func (p *Platform) SetBackdrop(h overlay.Handle, fill style.Color, alpha uint8) error {
	hwnd := uintptr(h)
	if s, ok := p.surfaces[hwnd]; ok {
		s.fill, s.alpha = fill, alpha
	}
	ret, _, err := procSetLayeredWindowAttributes.Call(hwnd, 0, uintptr(alpha), lwaAlpha)
	if ret == 0 {
		return fmt.Errorf("SetLayeredWindowAttributes: %w", callErr(err))
	}
	procInvalidateRect.Call(hwnd, 0, 1)
	return nil
}

// UpdateSurface implements overlay.Platform. Frames rendered by another
// backend are copied into a DIB first.
func (p *Platform) UpdateSurface(h overlay.Handle, bounds image.Rectangle, frame *raster.Frame) error {
	c, ok := frame.Canvas.(*Canvas)
	if !ok {
		tmp, err := toDIB(frame)
		if err != nil {
			return err
		}
		defer tmp.Release()
		c = tmp
	}

	w, hgt := c.Size()
	dst := point{X: int32(bounds.Min.X), Y: int32(bounds.Min.Y)}
	sz := size{CX: int32(w), CY: int32(hgt)}
	src := point{}
	blend := blendFunction{BlendOp: acSrcOver, SourceConstantAlpha: 255, AlphaFormat: acSrcAlpha}

	ret, _, err := procUpdateLayeredWindow.Call(
		uintptr(h), 0,
		uintptr(unsafe.Pointer(&dst)), uintptr(unsafe.Pointer(&sz)),
		c.dc, uintptr(unsafe.Pointer(&src)),
		0, uintptr(unsafe.Pointer(&blend)), ulwAlpha,
	)
	if ret == 0 {
		return fmt.Errorf("UpdateLayeredWindow: %w", callErr(err))
	}
	return nil
}

func toDIB(frame *raster.Frame) (*Canvas, error) {
	w, h := frame.Size()
	c, err := NewCanvas(w, h)
	if err != nil {
		return nil, err
	}
	src, dst := frame.Pix(), c.Pix()
	o := frame.Order
	for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
		dst[i+0] = src[i+o.B]
		dst[i+1] = src[i+o.G]
		dst[i+2] = src[i+o.R]
		dst[i+3] = src[i+o.A]
	}
	return c, nil
}

// SetEventSink implements overlay.Platform.
func (p *Platform) SetEventSink(sink overlay.EventSink) { p.sink = sink }

// Pump dispatches pending messages for the calling thread.
func (p *Platform) Pump() { Pump() }

func (p *Platform) paint(hwnd uintptr, s *surface) {
	var ps paintStruct
	hdc, _, _ := procBeginPaint.Call(hwnd, uintptr(unsafe.Pointer(&ps)))
	if hdc == 0 {
		return
	}
	brush, _, _ := procCreateSolidBrush.Call(rgb(s.fill.R, s.fill.G, s.fill.B))
	procFillRect.Call(hdc, uintptr(unsafe.Pointer(&ps.Paint)), brush)
	procDeleteObject.Call(brush)
	procEndPaint.Call(hwnd, uintptr(unsafe.Pointer(&ps)))
}

func (p *Platform) moved(hwnd uintptr) {
	var r rect
	if ret, _, _ := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r))); ret == 0 {
		return
	}
	if p.sink != nil {
		p.sink.Moved(overlay.Handle(hwnd), image.Pt(int(r.Left), int(r.Top)))
	}
}

func wndProc(hwnd, msg, wparam, lparam uintptr) uintptr {
	windowsMu.Lock()
	p := byHandle[hwnd]
	windowsMu.Unlock()
	if p == nil {
		ret, _, _ := procDefWindowProcW.Call(hwnd, msg, wparam, lparam)
		return ret
	}
	s := p.surfaces[hwnd]

	switch msg {
	case WM_MOUSEACTIVATE:
		return maNoActive
	case WM_ERASEBKGND:
		if s != nil && s.role == overlay.RoleBackdrop {
			return 1
		}
	case WM_PAINT:
		if s != nil && s.role == overlay.RoleBackdrop {
			p.paint(hwnd, s)
			return 0
		}
	case WM_LBUTTONDOWN:
		if p.sink != nil && p.sink.BeginDrag(overlay.Handle(hwnd)) {
			procReleaseCapture.Call()
			// Enters the modal move loop; WM_MOVE arrives on this thread.
			procSendMessageW.Call(hwnd, WM_SYSCOMMAND, scMove|htCaption, 0)
			return 0
		}
	case WM_MOVE:
		p.moved(hwnd)
		return 0
	}
	ret, _, _ := procDefWindowProcW.Call(hwnd, msg, wparam, lparam)
	return ret
}
