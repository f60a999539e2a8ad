package control

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/NaveLIL/lyrics-overlay/style"
)

// args holds call arguments: either a map of named fields or one bare value.
type args struct {
	fields map[string]any
	scalar any
	bare   bool
}

func newArgs(raw any) (args, *Error) {
	switch v := raw.(type) {
	case nil:
		return args{}, nil
	case map[string]any:
		return args{fields: v}, nil
	case map[any]any:
		m, err := cast.ToStringMapE(v)
		if err != nil {
			return args{}, &Error{Code: CodeBadArgs, Message: err.Error()}
		}
		return args{fields: m}, nil
	case []any:
		return args{}, &Error{Code: CodeBadArgs, Message: "arguments must be an object or a single value"}
	default:
		return args{scalar: v, bare: true}, nil
	}
}

// get looks up the first present name.
func (a args) get(names ...string) (any, bool) {
	for _, n := range names {
		if v, ok := a.fields[n]; ok {
			return v, true
		}
	}
	return nil, false
}

// one is get with a fallback to the bare value for single-field methods.
func (a args) one(names ...string) (any, bool) {
	if a.bare {
		return a.scalar, true
	}
	return a.get(names...)
}

func (a args) lookup(single bool, names []string) (any, *Error) {
	var (
		v  any
		ok bool
	)
	if single {
		v, ok = a.one(names...)
	} else {
		v, ok = a.get(names...)
	}
	if !ok {
		return nil, missing(names[0])
	}
	return v, nil
}

func (a args) integer(single bool, names ...string) (int, *Error) {
	v, err := a.lookup(single, names)
	if err != nil {
		return 0, err
	}
	n, perr := style.ParseInt(v)
	if perr != nil {
		return 0, badArgs(names[0], perr)
	}
	return n, nil
}

func (a args) boolean(single bool, names ...string) (bool, *Error) {
	v, err := a.lookup(single, names)
	if err != nil {
		return false, err
	}
	b, perr := style.ParseBool(v)
	if perr != nil {
		return false, badArgs(names[0], perr)
	}
	return b, nil
}

func (a args) color(single bool, names ...string) (style.Color, *Error) {
	v, err := a.lookup(single, names)
	if err != nil {
		return style.Color{}, err
	}
	c, perr := style.ParseColor(v)
	if perr != nil {
		return style.Color{}, badArgs(names[0], perr)
	}
	return c, nil
}

func (a args) str(single bool, names ...string) (string, *Error) {
	v, err := a.lookup(single, names)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case nil:
		return "", nil
	case map[string]any, []any:
		return "", badArgs(names[0], fmt.Errorf("expected a string, got %T", v))
	}
	s, perr := cast.ToStringE(v)
	if perr != nil {
		return "", badArgs(names[0], perr)
	}
	return s, nil
}
