package fonts

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
)

// Face is an opened font face. It implements raster.Face.
type Face struct {
	font.Face

	source     string
	lineHeight int
	ascent     int
	descent    int
	ellipsis   string
}

func newFace(ff font.Face, f *sfnt.Font, source string) *Face {
	m := ff.Metrics()
	face := &Face{
		Face:       ff,
		source:     source,
		lineHeight: m.Height.Ceil(),
		ascent:     m.Ascent.Ceil(),
		descent:    m.Descent.Ceil(),
		ellipsis:   "...",
	}
	if face.lineHeight <= 0 {
		face.lineHeight = face.ascent + face.descent
	}

	var buf sfnt.Buffer
	if idx, err := f.GlyphIndex(&buf, '…'); err == nil && idx != 0 {
		face.ellipsis = "…"
	}
	return face
}

// LineHeight returns the recommended baseline-to-baseline distance in pixels.
func (f *Face) LineHeight() int { return f.lineHeight }

// Source names where the font data came from.
func (f *Face) Source() string { return f.source }

func (f *Face) measure(s string) int {
	return font.MeasureString(f.Face, s).Ceil()
}

// fit returns s unchanged when it fits in avail pixels, truncated with an
// ellipsis otherwise.
func (f *Face) fit(s string, avail int) string {
	if f.measure(s) <= avail {
		return s
	}
	return f.truncate(s, avail)
}

// truncate returns the longest grapheme prefix of s that still fits in
// avail pixels once the ellipsis is appended, followed by the ellipsis.
func (f *Face) truncate(s string, avail int) string {
	var b strings.Builder
	state := -1
	for rest := s; rest != ""; {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if f.measure(b.String()+cluster+f.ellipsis) > avail {
			break
		}
		b.WriteString(cluster)
	}
	return strings.TrimRight(b.String(), " ") + f.ellipsis
}

// wrap breaks s into at most maxLines lines no wider than avail. Explicit
// newlines always break. When lines are dropped the last kept line ends
// with an ellipsis.
func (f *Face) wrap(s string, avail, maxLines int) []string {
	if maxLines < 1 {
		maxLines = 1
	}
	var lines []string
	for _, para := range strings.Split(normalizeNewlines(s), "\n") {
		lines = append(lines, f.wrapParagraph(para, avail)...)
	}
	if len(lines) > maxLines {
		last := lines[maxLines-1]
		lines = lines[:maxLines]
		lines[maxLines-1] = f.truncate(last, avail)
	}
	return lines
}

func (f *Face) wrapParagraph(p string, avail int) []string {
	var lines []string
	line := ""
	state := -1
	for rest := p; rest != ""; {
		var seg string
		seg, rest, _, state = uniseg.FirstLineSegmentInString(rest, state)
		if f.measure(strings.TrimRight(line+seg, " ")) <= avail {
			line += seg
			continue
		}
		if line != "" {
			lines = append(lines, strings.TrimRight(line, " "))
		}
		for f.measure(strings.TrimRight(seg, " ")) > avail {
			head, tail := f.splitAt(seg, avail)
			lines = append(lines, head)
			seg = tail
		}
		line = seg
	}
	return append(lines, strings.TrimRight(line, " "))
}

// splitAt cuts s at the last grapheme boundary that fits in avail pixels.
// At least one grapheme is always taken.
func (f *Face) splitAt(s string, avail int) (string, string) {
	head := ""
	state := -1
	rest := s
	for rest != "" {
		cluster, tail, _, next := uniseg.FirstGraphemeClusterInString(rest, state)
		if head != "" && f.measure(head+cluster) > avail {
			break
		}
		head += cluster
		rest, state = tail, next
	}
	return head, rest
}

func normalizeNewlines(s string) string {
	return strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(s)
}

// singleLine folds line breaks into spaces.
func singleLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(s)
}
