package inject

import (
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// funcValue checks that fn is a non-variadic function taking exactly
// len(params) parameters.
func funcValue(fn any, params []string) (reflect.Value, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return reflect.Value{}, newNotAFunctionError(fn)
	}
	t := v.Type()
	if t.IsVariadic() {
		return reflect.Value{}, &Error{
			Code:    ErrCodeArityMismatch,
			Message: "variadic functions cannot be injected",
		}
	}
	if t.NumIn() != len(params) {
		return reflect.Value{}, newArityError(t.NumIn(), len(params))
	}
	return v, nil
}

// resolver produces the argument for a named parameter of type want.
// An invalid reflect.Value means the zero value of want.
type resolver func(name string, want reflect.Type) (reflect.Value, error)

// invoke resolves every parameter and calls fv.
func invoke(fv reflect.Value, params []string, resolve resolver) (any, error) {
	t := fv.Type()
	args := make([]reflect.Value, len(params))
	for i, name := range params {
		want := t.In(i)
		v, err := resolve(name, want)
		if err != nil {
			return nil, err
		}
		switch {
		case !v.IsValid():
			v = reflect.Zero(want)
		case !v.Type().AssignableTo(want):
			return nil, newTypeMismatchError(name, v.Type(), want)
		}
		args[i] = v
	}
	return results(fv.Call(args))
}

// results maps a call's return values to (first, err). A trailing error
// result is split off; the remaining first result is returned as is.
func results(out []reflect.Value) (any, error) {
	var err error
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if last := out[n-1]; !last.IsNil() {
			err = last.Interface().(error)
		}
		out = out[:n-1]
	}
	if len(out) == 0 {
		return nil, err
	}
	return out[0].Interface(), err
}
