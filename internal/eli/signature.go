package eli

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Signature is an ordered list of constructor parameter types.
type Signature struct {
	params []reflect.Type
	key    string
}

// NewSignature returns the signature with the given parameter types.
func NewSignature(params ...reflect.Type) Signature {
	return Signature{params: append([]reflect.Type(nil), params...), key: typeListKey(params)}
}

func typeListKey(types []reflect.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return "(" + strings.Join(names, ", ") + ")"
}

// Key is the string form used to index factory tables.
func (s Signature) Key() string    { return s.key }
func (s Signature) String() string { return s.key }
func (s Signature) Len() int       { return len(s.params) }

func (s Signature) Params() []reflect.Type {
	return append([]reflect.Type(nil), s.params...)
}

func (s Signature) equal(types []reflect.Type) bool {
	if len(types) != len(s.params) {
		return false
	}
	for i, t := range types {
		if t != s.params[i] {
			return false
		}
	}
	return true
}

// Match reports whether args can be passed to a constructor of this
// signature and returns them converted to the declared parameter types.
func (s Signature) Match(args []any) ([]reflect.Value, bool) {
	if len(args) != len(s.params) {
		return nil, false
	}
	out := make([]reflect.Value, len(args))
	for i, a := range args {
		v, ok := convertArg(a, s.params[i])
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// convertArg applies the numeric normalization rules: integers reach any
// integer parameter they fit in, integers and floats reach float parameters
// and nil reaches any nilable parameter. Everything else must be assignable.
func convertArg(arg any, want reflect.Type) (reflect.Value, bool) {
	if arg == nil {
		if nilable(want.Kind()) {
			return reflect.Zero(want), true
		}
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(arg)
	out := reflect.New(want).Elem()
	switch {
	case isSigned(want.Kind()):
		switch {
		case isSigned(v.Kind()):
			if out.OverflowInt(v.Int()) {
				return reflect.Value{}, false
			}
			out.SetInt(v.Int())
			return out, true
		case isUnsigned(v.Kind()):
			if v.Uint() > math.MaxInt64 || out.OverflowInt(int64(v.Uint())) {
				return reflect.Value{}, false
			}
			out.SetInt(int64(v.Uint()))
			return out, true
		}
	case isUnsigned(want.Kind()):
		switch {
		case isSigned(v.Kind()):
			if v.Int() < 0 || out.OverflowUint(uint64(v.Int())) {
				return reflect.Value{}, false
			}
			out.SetUint(uint64(v.Int()))
			return out, true
		case isUnsigned(v.Kind()):
			if out.OverflowUint(v.Uint()) {
				return reflect.Value{}, false
			}
			out.SetUint(v.Uint())
			return out, true
		}
	case isFloat(want.Kind()):
		var f float64
		switch {
		case isSigned(v.Kind()):
			f = float64(v.Int())
		case isUnsigned(v.Kind()):
			f = float64(v.Uint())
		case isFloat(v.Kind()):
			f = v.Float()
		default:
			return reflect.Value{}, false
		}
		if out.OverflowFloat(f) {
			return reflect.Value{}, false
		}
		out.SetFloat(f)
		return out, true
	}
	if v.Type().AssignableTo(want) {
		out.Set(v)
		return out, true
	}
	return reflect.Value{}, false
}

func nilable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func isSigned(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUnsigned(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// describeArgs renders the dynamic types of args for error messages.
func describeArgs(args []any) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if a == nil {
			out[i] = "nil"
			continue
		}
		out[i] = fmt.Sprintf("%T", a)
	}
	return out
}
