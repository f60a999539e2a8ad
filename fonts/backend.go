// Package fonts is the portable glyph backend. It opens OpenType faces with
// golang.org/x/image and draws coverage masks into in-memory canvases, so the
// raster pipeline runs and can be tested on any OS.
package fonts

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-text/typesetting/fontscan"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/NaveLIL/lyrics-overlay/logger"
	"github.com/NaveLIL/lyrics-overlay/raster"
	"github.com/NaveLIL/lyrics-overlay/style"
)

// DefaultDPI matches the logical DPI of a standard desktop.
const DefaultDPI = 96

// ErrInvalidSize is returned by NewCanvas for non-positive dimensions.
var ErrInvalidSize = errors.New("fonts: invalid canvas size")

// Options configures a Backend.
type Options struct {
	// SystemFonts enables lookup of installed fonts by family name.
	SystemFonts bool
	// CacheDir holds the system font index. Empty uses the user cache dir.
	CacheDir string
	// DPI used to convert point sizes to pixels. Zero means DefaultDPI.
	DPI float64
}

// Backend implements raster.Backend.
type Backend struct {
	opts Options
	log  *logrus.Entry

	scanOnce sync.Once
	fontMap  *fontscan.FontMap

	mu     sync.Mutex
	parsed map[string]*sfnt.Font
}

// NewBackend creates a portable backend.
func NewBackend(opts Options) *Backend {
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}
	return &Backend{
		opts:   opts,
		log:    logger.Get().Component("fonts"),
		parsed: make(map[string]*sfnt.Font),
	}
}

// OpenFace implements raster.Backend. Installed fonts are tried first when
// system lookup is enabled; the embedded Go fonts are the fallback.
func (b *Backend) OpenFace(spec style.FontSpec) (raster.Face, error) {
	size := spec.SizePt
	if size <= 0 {
		size = style.DefaultFontSize
	}

	f, source := b.systemFont(spec)
	if f == nil {
		var err error
		f, source, err = b.embeddedFont(spec)
		if err != nil {
			return nil, err
		}
	}

	ff, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     b.opts.DPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face %q: %w", spec.Family, err)
	}

	b.log.WithFields(logrus.Fields{
		"family": spec.Family,
		"size":   size,
		"weight": spec.Weight,
		"source": source,
	}).Debug("Opened font face")

	return newFace(ff, f, source), nil
}

// NewCanvas implements raster.Backend.
func (b *Backend) NewCanvas(w, h int) (raster.Canvas, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	c, err := NewCanvas(w, h)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, err)
	}
	return c, nil
}

func (b *Backend) systemFont(spec style.FontSpec) (*sfnt.Font, string) {
	if !b.opts.SystemFonts || spec.Family == "" {
		return nil, ""
	}

	b.scanOnce.Do(func() {
		cacheDir := b.opts.CacheDir
		if cacheDir == "" {
			dir, err := os.UserCacheDir()
			if err != nil {
				b.log.Warnf("Failed to resolve font cache dir: %v", err)
				return
			}
			cacheDir = dir
		}
		fm := fontscan.NewFontMap(b.log)
		if err := fm.UseSystemFonts(cacheDir); err != nil {
			b.log.Warnf("Failed to index system fonts: %v", err)
			return
		}
		b.fontMap = fm
	})
	if b.fontMap == nil {
		return nil, ""
	}

	var (
		best      *sfnt.Font
		bestPath  string
		bestScore = -1
	)
	for _, loc := range b.fontMap.FindSystemFonts(spec.Family) {
		f, err := b.load(loc.File, int(loc.Index))
		if err != nil {
			b.log.Debugf("Skipping %s: %v", loc.File, err)
			continue
		}
		if score := weightScore(f, spec.Weight); best == nil || score < bestScore {
			best, bestPath, bestScore = f, loc.File, score
		}
	}
	if best == nil {
		b.log.Debugf("No installed font for family %q, using embedded fallback", spec.Family)
		return nil, ""
	}
	return best, "system:" + bestPath
}

func (b *Backend) load(path string, index int) (*sfnt.Font, error) {
	key := fmt.Sprintf("%s#%d", path, index)

	b.mu.Lock()
	defer b.mu.Unlock()
	if f, ok := b.parsed[key]; ok {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, err
	}
	if index >= coll.NumFonts() {
		index = 0
	}
	f, err := coll.Font(index)
	if err != nil {
		return nil, err
	}
	b.parsed[key] = f
	return f, nil
}

func (b *Backend) embeddedFont(spec style.FontSpec) (*sfnt.Font, string, error) {
	name, data := embeddedData(spec)

	b.mu.Lock()
	defer b.mu.Unlock()
	key := "embedded:" + name
	if f, ok := b.parsed[key]; ok {
		return f, key, nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("parse embedded font %s: %w", name, err)
	}
	b.parsed[key] = f
	return f, key, nil
}

// embeddedData picks the closest Go font for spec.
func embeddedData(spec style.FontSpec) (string, []byte) {
	family := strings.ToLower(spec.Family)
	mono := strings.Contains(family, "mono") || strings.Contains(family, "consol") || strings.Contains(family, "courier")

	switch {
	case mono && spec.Weight >= style.BoldWeight:
		return "gomonobold", gomonobold.TTF
	case mono:
		return "gomono", gomono.TTF
	case spec.Weight >= style.BoldWeight:
		return "gobold", gobold.TTF
	case spec.Weight >= 500:
		return "gomedium", gomedium.TTF
	default:
		return "goregular", goregular.TTF
	}
}

// weightScore ranks an installed face against the requested weight; lower
// is better. Italic and oblique styles rank behind every upright style.
func weightScore(f *sfnt.Font, want int) int {
	if want <= 0 {
		want = style.NormalWeight
	}
	var buf sfnt.Buffer
	sub, err := f.Name(&buf, sfnt.NameIDSubfamily)
	if err != nil {
		return 1000
	}
	sub = strings.ToLower(sub)

	penalty := 0
	for _, slant := range []string{"italic", "oblique"} {
		if strings.Contains(sub, slant) {
			penalty = 1000
			sub = strings.ReplaceAll(sub, slant, "")
		}
	}

	w, ok := style.WeightFromName(sub)
	if !ok {
		w = style.NormalWeight
	}
	d := w - want
	if d < 0 {
		d = -d
	}
	return d + penalty
}
