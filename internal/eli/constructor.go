package eli

import "reflect"

// Constructor is a typed construction procedure. Build one with Ctor0..Ctor4.
type Constructor struct {
	params []reflect.Type
	result reflect.Type
	call   func(args []reflect.Value) any
	legacy bool
}

// Params returns the constructor's parameter types.
func (c Constructor) Params() []reflect.Type {
	return append([]reflect.Type(nil), c.params...)
}

// Result returns the constructor's declared result type.
func (c Constructor) Result() reflect.Type { return c.result }

// LegacyFunc marks c as a wrapped legacy allocation function.
func LegacyFunc(c Constructor) Constructor {
	c.legacy = true
	return c
}

func argAs[T any](v reflect.Value) T {
	if !v.IsValid() {
		var zero T
		return zero
	}
	t, _ := v.Interface().(T)
	return t
}

func Ctor0[R any](fn func() R) Constructor {
	return Constructor{
		result: reflect.TypeFor[R](),
		call:   func([]reflect.Value) any { return fn() },
	}
}

func Ctor1[A1, R any](fn func(A1) R) Constructor {
	return Constructor{
		params: []reflect.Type{reflect.TypeFor[A1]()},
		result: reflect.TypeFor[R](),
		call: func(a []reflect.Value) any {
			return fn(argAs[A1](a[0]))
		},
	}
}

func Ctor2[A1, A2, R any](fn func(A1, A2) R) Constructor {
	return Constructor{
		params: []reflect.Type{reflect.TypeFor[A1](), reflect.TypeFor[A2]()},
		result: reflect.TypeFor[R](),
		call: func(a []reflect.Value) any {
			return fn(argAs[A1](a[0]), argAs[A2](a[1]))
		},
	}
}

func Ctor3[A1, A2, A3, R any](fn func(A1, A2, A3) R) Constructor {
	return Constructor{
		params: []reflect.Type{reflect.TypeFor[A1](), reflect.TypeFor[A2](), reflect.TypeFor[A3]()},
		result: reflect.TypeFor[R](),
		call: func(a []reflect.Value) any {
			return fn(argAs[A1](a[0]), argAs[A2](a[1]), argAs[A3](a[2]))
		},
	}
}

func Ctor4[A1, A2, A3, A4, R any](fn func(A1, A2, A3, A4) R) Constructor {
	return Constructor{
		params: []reflect.Type{reflect.TypeFor[A1](), reflect.TypeFor[A2](), reflect.TypeFor[A3](), reflect.TypeFor[A4]()},
		result: reflect.TypeFor[R](),
		call: func(a []reflect.Value) any {
			return fn(argAs[A1](a[0]), argAs[A2](a[1]), argAs[A3](a[2]), argAs[A4](a[3]))
		},
	}
}

// IsLegacy reports whether c wraps a legacy allocation function.
func (c Constructor) IsLegacy() bool { return c.legacy }
