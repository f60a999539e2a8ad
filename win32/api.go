//go:build windows

package win32

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	gdi32    = windows.NewLazySystemDLL("gdi32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procRegisterClassExW           = user32.NewProc("RegisterClassExW")
	procCreateWindowExW            = user32.NewProc("CreateWindowExW")
	procDestroyWindow              = user32.NewProc("DestroyWindow")
	procDefWindowProcW             = user32.NewProc("DefWindowProcW")
	procShowWindow                 = user32.NewProc("ShowWindow")
	procSetWindowPos               = user32.NewProc("SetWindowPos")
	procGetWindowRect              = user32.NewProc("GetWindowRect")
	procGetWindowLongPtrW          = user32.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtrW          = user32.NewProc("SetWindowLongPtrW")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
	procUpdateLayeredWindow        = user32.NewProc("UpdateLayeredWindow")
	procInvalidateRect             = user32.NewProc("InvalidateRect")
	procBeginPaint                 = user32.NewProc("BeginPaint")
	procEndPaint                   = user32.NewProc("EndPaint")
	procFillRect                   = user32.NewProc("FillRect")
	procReleaseCapture             = user32.NewProc("ReleaseCapture")
	procSendMessageW               = user32.NewProc("SendMessageW")
	procPeekMessageW               = user32.NewProc("PeekMessageW")
	procTranslateMessage           = user32.NewProc("TranslateMessage")
	procDispatchMessageW           = user32.NewProc("DispatchMessageW")
	procGetDC                      = user32.NewProc("GetDC")
	procReleaseDC                  = user32.NewProc("ReleaseDC")
	procDrawTextW                  = user32.NewProc("DrawTextW")
	procRegisterHotKey             = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey           = user32.NewProc("UnregisterHotKey")

	procCreateCompatibleDC = gdi32.NewProc("CreateCompatibleDC")
	procDeleteDC           = gdi32.NewProc("DeleteDC")
	procCreateDIBSection   = gdi32.NewProc("CreateDIBSection")
	procSelectObject       = gdi32.NewProc("SelectObject")
	procDeleteObject       = gdi32.NewProc("DeleteObject")
	procCreateFontW        = gdi32.NewProc("CreateFontW")
	procGetTextMetricsW    = gdi32.NewProc("GetTextMetricsW")
	procGetDeviceCaps      = gdi32.NewProc("GetDeviceCaps")
	procSetTextColor       = gdi32.NewProc("SetTextColor")
	procSetBkMode          = gdi32.NewProc("SetBkMode")
	procSetPixelV          = gdi32.NewProc("SetPixelV")
	procCreateSolidBrush   = gdi32.NewProc("CreateSolidBrush")
	procGdiFlush           = gdi32.NewProc("GdiFlush")

	procGetModuleHandleW = kernel32.NewProc("GetModuleHandleW")
	procSetLastError     = kernel32.NewProc("SetLastError")
	procMulDiv           = kernel32.NewProc("MulDiv")
)

// Window styles.
const (
	WS_POPUP uintptr = 0x80000000

	WS_EX_LAYERED     uintptr = 0x00080000
	WS_EX_TRANSPARENT uintptr = 0x00000020
	WS_EX_TOPMOST     uintptr = 0x00000008
	WS_EX_TOOLWINDOW  uintptr = 0x00000080
	WS_EX_NOACTIVATE  uintptr = 0x08000000
)

// Window messages.
const (
	WM_MOVE          = 0x0003
	WM_PAINT         = 0x000F
	WM_ERASEBKGND    = 0x0014
	WM_MOUSEACTIVATE = 0x0021
	WM_NCHITTEST     = 0x0084
	WM_LBUTTONDOWN   = 0x0201
	WM_SYSCOMMAND    = 0x0112
	WM_HOTKEY        = 0x0312
)

// Hotkey modifiers.
const (
	MOD_ALT     = 0x0001
	MOD_CONTROL = 0x0002
	MOD_SHIFT   = 0x0004
	MOD_WIN     = 0x0008
)

const (
	hwndTopmost = ^uintptr(0) // HWND_TOPMOST (-1)

	swHide           = 0
	swShowNoActivate = 4

	swpNoSize     = 0x0001
	swpNoMove     = 0x0002
	swpNoZOrder   = 0x0004
	swpNoActivate = 0x0010

	lwaAlpha    = 0x00000002
	ulwAlpha    = 0x00000002
	acSrcOver   = 0x00
	acSrcAlpha  = 0x01
	maNoActive  = 3
	scMove      = 0xF010
	htCaption   = 2
	pmRemove    = 0x0001
	transparent = 1

	biRGB          = 0
	dibRGBColors   = 0
	logPixelsY     = 90
	defaultCharset = 1
	outTTPrecis    = 4
	clipDefault    = 0
	antialiased    = 4
	defaultPitch   = 0

	dtLeft         = 0x00000000
	dtCenter       = 0x00000001
	dtRight        = 0x00000002
	dtVCenter      = 0x00000004
	dtWordBreak    = 0x00000010
	dtSingleLine   = 0x00000020
	dtNoPrefix     = 0x00000800
	dtEditControl  = 0x00002000
	dtEndEllipsis  = 0x00008000
	dtWordEllipsis = 0x00040000
)

// gwlExStyle returns GWL_EXSTYLE (-20) as uintptr.
func gwlExStyle() uintptr {
	return ^uintptr(19)
}

// MSG is a Windows message.
type MSG struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

type rect struct {
	Left, Top, Right, Bottom int32
}

type point struct{ X, Y int32 }

type size struct{ CX, CY int32 }

type wndClassEx struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   uintptr
	Icon       uintptr
	Cursor     uintptr
	Background uintptr
	MenuName   *uint16
	ClassName  *uint16
	IconSm     uintptr
}

type paintStruct struct {
	Hdc         uintptr
	Erase       int32
	Paint       rect
	Restore     int32
	IncUpdate   int32
	RgbReserved [32]byte
}

type blendFunction struct {
	BlendOp             byte
	BlendFlags          byte
	SourceConstantAlpha byte
	AlphaFormat         byte
}

type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

type textMetric struct {
	Height           int32
	Ascent           int32
	Descent          int32
	InternalLeading  int32
	ExternalLeading  int32
	AveCharWidth     int32
	MaxCharWidth     int32
	Weight           int32
	Overhang         int32
	DigitizedAspectX int32
	DigitizedAspectY int32
	FirstChar        uint16
	LastChar         uint16
	DefaultChar      uint16
	BreakChar        uint16
	Italic           byte
	Underlined       byte
	StruckOut        byte
	PitchAndFamily   byte
	CharSet          byte
}

// rgb builds a COLORREF (0x00BBGGRR).
func rgb(r, g, b uint8) uintptr {
	return uintptr(r) | uintptr(g)<<8 | uintptr(b)<<16
}

// callErr returns err when it carries an OS error code, and a generic
// failure otherwise. Some APIs fail without setting the last error.
func callErr(err error) error {
	if errno, ok := err.(windows.Errno); ok && errno != 0 {
		return errno
	}
	return windows.ERROR_GEN_FAILURE
}

// RegisterHotKey registers a global hotkey for the calling thread.
func RegisterHotKey(hwnd uintptr, id int, modifiers uint32, vk uint32) error {
	ret, _, err := procRegisterHotKey.Call(hwnd, uintptr(id), uintptr(modifiers), uintptr(vk))
	if ret == 0 {
		return callErr(err)
	}
	return nil
}

// UnregisterHotKey unregisters a global hotkey.
func UnregisterHotKey(hwnd uintptr, id int) error {
	ret, _, err := procUnregisterHotKey.Call(hwnd, uintptr(id))
	if ret == 0 {
		return callErr(err)
	}
	return nil
}

// PeekMessage removes one message from the calling thread's queue and
// reports whether there was one.
func PeekMessage(msg *MSG) bool {
	ret, _, _ := procPeekMessageW.Call(uintptr(unsafe.Pointer(msg)), 0, 0, 0, pmRemove)
	return ret != 0
}

// Pump dispatches every pending message of the calling thread.
func Pump() {
	var msg MSG
	for PeekMessage(&msg) {
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&msg)))
	}
}
