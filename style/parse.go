package style

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ErrInvalidValue is wrapped by every parse failure in this package.
var ErrInvalidValue = errors.New("invalid value")

func invalid(kind string, v any) error {
	return fmt.Errorf("%w: %s %#v", ErrInvalidValue, kind, v)
}

// ParseInt accepts any integer type, floats (rounded), json.Number and
// numeric strings.
func ParseInt(v any) (int, error) {
	switch n := v.(type) {
	case nil, bool:
		return 0, invalid("int", v)
	case float64:
		return roundFloat(n, v)
	case float32:
		return roundFloat(float64(n), v)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return saturate(i), nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, invalid("int", v)
		}
		return roundFloat(f, v)
	case string:
		return parseIntString(n)
	case []byte:
		return parseIntString(string(n))
	}

	i, err := cast.ToInt64E(v)
	if err != nil {
		return 0, invalid("int", v)
	}
	return saturate(i), nil
}

func parseIntString(s string) (int, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return saturate(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, invalid("int", s)
	}
	return roundFloat(f, s)
}

// roundFloat rounds f and saturates it to the int32 range, so huge
// values still clamp to their field's range instead of failing.
func roundFloat(f float64, v any) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalid("int", v)
	}
	f = math.Max(math.MinInt32, math.Min(math.MaxInt32, math.Round(f)))
	return int(f), nil
}

func saturate(i int64) int {
	return int(max(math.MinInt32, min(math.MaxInt32, i)))
}

// ParseBool accepts booleans, "true"/"false"/"1"/"0" style strings and
// integers (non-zero is true).
func ParseBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		s := strings.ToLower(strings.TrimSpace(b))
		if out, err := cast.ToBoolE(s); err == nil {
			return out, nil
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n != 0, nil
		}
		return false, invalid("bool", v)
	}

	n, err := ParseInt(v)
	if err != nil {
		return false, invalid("bool", v)
	}
	return n != 0, nil
}

// ParseColor accepts "#RRGGBB", "0xRRGGBB", bare hex strings and integers.
// Values wider than 24 bits are masked, so "#80FF0000" keeps only the RGB part.
func ParseColor(v any) (Color, error) {
	switch c := v.(type) {
	case string:
		return parseHexColor(c)
	case []byte:
		return parseHexColor(string(c))
	case Color:
		return c, nil
	}

	n, err := colorNumber(v)
	if err != nil {
		return Color{}, err
	}
	return RGB(uint32(n) & 0xFFFFFF), nil
}

// colorNumber reads a numeric colour without the int32 saturation ParseInt
// applies, so packed 0xAARRGGBB values keep their low 24 bits.
func colorNumber(v any) (int64, error) {
	var f float64
	switch n := v.(type) {
	case nil, bool:
		return 0, invalid("color", v)
	case float64:
		f = n
	case float32:
		f = float64(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		var err error
		if f, err = n.Float64(); err != nil {
			return 0, invalid("color", v)
		}
	default:
		i, err := cast.ToInt64E(v)
		if err != nil {
			return 0, invalid("color", v)
		}
		return i, nil
	}
	f = math.Round(f)
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, invalid("color", v)
	}
	return int64(f), nil
}

func parseHexColor(s string) (Color, error) {
	h := strings.TrimSpace(s)
	h = strings.TrimPrefix(h, "#")
	if strings.HasPrefix(h, "0x") || strings.HasPrefix(h, "0X") {
		h = h[2:]
	}
	if h == "" || len(h) > 8 {
		return Color{}, invalid("color", s)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, invalid("color", s)
	}
	return RGB(uint32(n) & 0xFFFFFF), nil
}

// ParseAlign accepts "left", "center"/"centre", "right" or 0, 1, 2.
func ParseAlign(v any) (Align, error) {
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "left", "start":
			return AlignLeft, nil
		case "center", "centre", "middle":
			return AlignCenter, nil
		case "right", "end":
			return AlignRight, nil
		}
	}

	n, err := ParseInt(v)
	if err != nil || n < int(AlignLeft) || n > int(AlignRight) {
		return AlignLeft, invalid("align", v)
	}
	return Align(n), nil
}

var weightNames = map[string]int{
	"thin": 100, "hairline": 100, "极细": 100, "超细": 100,
	"extralight": 200, "ultralight": 200, "纤细": 200,
	"light": 300, "细": 300,
	"regular": 400, "normal": 400, "常规": 400, "正常": 400,
	"medium": 500, "中": 500, "中等": 500,
	"semibold": 600, "demibold": 600, "半粗": 600, "中粗": 600,
	"bold": 700, "粗": 700, "加粗": 700,
	"extrabold": 800, "ultrabold": 800, "特粗": 800, "超粗": 800,
	"black": 900, "heavy": 900, "黑": 900, "重": 900, "黑体": 900,
}

// WeightFromName maps a weight alias such as "semibold" or "Semi Bold" to
// its numeric value.
func WeightFromName(name string) (int, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
	w, ok := weightNames[key]
	return w, ok
}

// ParseWeight accepts a number (clamped to 100..900) or a weight name.
func ParseWeight(v any) (int, error) {
	if s, ok := v.(string); ok {
		if w, ok := WeightFromName(s); ok {
			return w, nil
		}
	}
	n, err := ParseInt(v)
	if err != nil {
		return 0, invalid("weight", v)
	}
	return clamp(n, MinWeight, MaxWeight), nil
}
