//go:build windows

package win32

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"

	"github.com/NaveLIL/lyrics-overlay/layout"
	"github.com/NaveLIL/lyrics-overlay/logger"
	"github.com/NaveLIL/lyrics-overlay/raster"
	"github.com/NaveLIL/lyrics-overlay/style"
)

// ErrForeignFace is returned when a face from another backend is drawn.
var ErrForeignFace = errors.New("win32: face not created by the GDI backend")

// Face is a GDI font handle.
type Face struct {
	hfont      uintptr
	spec       style.FontSpec
	lineHeight int
}

// LineHeight implements raster.Face.
func (f *Face) LineHeight() int { return f.lineHeight }

// Close deletes the font handle.
func (f *Face) Close() error {
	if f.hfont == 0 {
		return nil
	}
	procDeleteObject.Call(f.hfont)
	f.hfont = 0
	return nil
}

// GDIBackend renders text with GDI into 32-bit DIB sections.
type GDIBackend struct {
	log *logrus.Entry
}

// NewGDIBackend creates the GDI backend.
func NewGDIBackend() *GDIBackend {
	return &GDIBackend{log: logger.Get().Component("gdi")}
}

// OpenFace implements raster.Backend. The size is converted from points to
// pixels using the screen's vertical DPI.
func (b *GDIBackend) OpenFace(spec style.FontSpec) (raster.Face, error) {
	pt := spec.SizePt
	if pt == 0 {
		pt = style.DefaultFontSize
	}
	screen, _, _ := procGetDC.Call(0)
	if screen == 0 {
		return nil, fmt.Errorf("GetDC: %w", windows.ERROR_INVALID_HANDLE)
	}
	defer procReleaseDC.Call(0, screen)

	dpi, _, _ := procGetDeviceCaps.Call(screen, logPixelsY)
	px, _, _ := procMulDiv.Call(uintptr(pt), dpi, 72)
	height := -int32(px)

	family, err := windows.UTF16PtrFromString(spec.Family)
	if err != nil {
		return nil, fmt.Errorf("font family %q: %w", spec.Family, err)
	}
	hfont, _, callErrno := procCreateFontW.Call(
		uintptr(height), 0, 0, 0,
		uintptr(spec.Weight),
		0, 0, 0,
		defaultCharset, outTTPrecis, clipDefault, antialiased, defaultPitch,
		uintptr(unsafe.Pointer(family)),
	)
	if hfont == 0 {
		return nil, fmt.Errorf("CreateFontW %q: %w", spec.Family, callErr(callErrno))
	}

	dc, _, _ := procCreateCompatibleDC.Call(screen)
	defer procDeleteDC.Call(dc)
	old, _, _ := procSelectObject.Call(dc, hfont)
	var tm textMetric
	ret, _, callErrno := procGetTextMetricsW.Call(dc, uintptr(unsafe.Pointer(&tm)))
	procSelectObject.Call(dc, old)
	if ret == 0 {
		procDeleteObject.Call(hfont)
		return nil, fmt.Errorf("GetTextMetricsW: %w", callErr(callErrno))
	}

	f := &Face{hfont: hfont, spec: spec, lineHeight: int(tm.Height + tm.ExternalLeading)}
	b.log.WithFields(logrus.Fields{
		"family":      spec.Family,
		"px":          px,
		"line_height": f.lineHeight,
	}).Debug("GDI font created")
	return f, nil
}

// NewCanvas implements raster.Backend.
func (b *GDIBackend) NewCanvas(w, h int) (raster.Canvas, error) {
	c, err := NewCanvas(w, h)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Canvas is a top-down 32-bit DIB section selected into a memory DC.
type Canvas struct {
	dc     uintptr
	bitmap uintptr
	old    uintptr
	bits   []byte
	w, h   int
}

// NewCanvas allocates a w×h DIB canvas. Sizes rejected by
// raster.CheckSize fail.
func NewCanvas(w, h int) (*Canvas, error) {
	if err := raster.CheckSize(w, h); err != nil {
		return nil, fmt.Errorf("win32: %w", err)
	}
	dc, _, err := procCreateCompatibleDC.Call(0)
	if dc == 0 {
		return nil, fmt.Errorf("CreateCompatibleDC: %w", callErr(err))
	}

	bi := bitmapInfoHeader{
		Width:    int32(w),
		Height:   -int32(h),
		Planes:   1,
		BitCount: 32,
	}
	bi.Size = uint32(unsafe.Sizeof(bi))
	var bits unsafe.Pointer
	bmp, _, err := procCreateDIBSection.Call(dc, uintptr(unsafe.Pointer(&bi)), dibRGBColors,
		uintptr(unsafe.Pointer(&bits)), 0, 0)
	if bmp == 0 || bits == nil {
		procDeleteDC.Call(dc)
		return nil, fmt.Errorf("CreateDIBSection %dx%d: %w", w, h, callErr(err))
	}
	old, _, _ := procSelectObject.Call(dc, bmp)

	return &Canvas{
		dc:     dc,
		bitmap: bmp,
		old:    old,
		bits:   unsafe.Slice((*byte)(bits), w*h*4),
		w:      w,
		h:      h,
	}, nil
}

// Size implements raster.Surface.
func (c *Canvas) Size() (int, int) { return c.w, c.h }

// Pix implements raster.Surface. Pending GDI drawing is flushed first.
func (c *Canvas) Pix() []byte {
	procGdiFlush.Call()
	return c.bits
}

// SetPixelRGB writes a pixel through GDI, so the bytes land in the order
// the driver uses.
func (c *Canvas) SetPixelRGB(x, y int, r, g, b uint8) {
	procSetPixelV.Call(c.dc, uintptr(x), uintptr(y), rgb(r, g, b))
	procGdiFlush.Call()
}

// Clear zeroes every pixel.
func (c *Canvas) Clear() {
	procGdiFlush.Call()
	clear(c.bits)
}

// DrawText draws white text into r. Single-line text is vertically centred
// and ellipsized; multi-line text is word-wrapped from the top.
func (c *Canvas) DrawText(face raster.Face, text string, r image.Rectangle, align style.Align, mode layout.LineMode) error {
	f, ok := face.(*Face)
	if !ok {
		return ErrForeignFace
	}
	if text == "" || r.Empty() {
		return nil
	}
	s, err := windows.UTF16FromString(text)
	if err != nil {
		return fmt.Errorf("encode text: %w", err)
	}

	old, _, _ := procSelectObject.Call(c.dc, f.hfont)
	defer procSelectObject.Call(c.dc, old)
	procSetTextColor.Call(c.dc, rgb(255, 255, 255))
	procSetBkMode.Call(c.dc, transparent)

	flags := uintptr(dtNoPrefix)
	switch align {
	case style.AlignCenter:
		flags |= dtCenter
	case style.AlignRight:
		flags |= dtRight
	default:
		flags |= dtLeft
	}
	if mode == layout.SingleLine {
		flags |= dtSingleLine | dtVCenter | dtEndEllipsis
	} else {
		flags |= dtWordBreak | dtEditControl | dtEndEllipsis
	}

	rc := rect{Left: int32(r.Min.X), Top: int32(r.Min.Y), Right: int32(r.Max.X), Bottom: int32(r.Max.Y)}
	// len(s)-1 excludes the terminating NUL.
	ret, _, callErrno := procDrawTextW.Call(c.dc, uintptr(unsafe.Pointer(&s[0])), uintptr(len(s)-1),
		uintptr(unsafe.Pointer(&rc)), flags)
	procGdiFlush.Call()
	if ret == 0 {
		return fmt.Errorf("DrawTextW: %w", callErr(callErrno))
	}
	return nil
}

// Release frees the DIB and the memory DC.
func (c *Canvas) Release() {
	if c.dc == 0 {
		return
	}
	procSelectObject.Call(c.dc, c.old)
	procDeleteObject.Call(c.bitmap)
	procDeleteDC.Call(c.dc)
	c.dc, c.bitmap, c.bits = 0, 0, nil
}
