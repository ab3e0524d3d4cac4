package js

import (
	"strconv"

	"github.com/dop251/goja"
)

func isString(v goja.Value) bool {
	if v == nil {
		return false
	}
	_, ok := v.Export().(string)
	return ok
}

func isNumber(v goja.Value) bool {
	if v == nil {
		return false
	}
	switch v.Export().(type) {
	case int64, float64:
		return true
	}
	return false
}

func isNullish(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}

// optionalNumber returns the i-th argument as a float when it is a number,
// and 0 otherwise.
func optionalNumber(call goja.FunctionCall, i int) float64 {
	if i >= len(call.Arguments) {
		return 0
	}
	v := call.Arguments[i]
	if !isNumber(v) {
		return 0
	}
	return v.ToFloat()
}

func pluralArguments(n int) string {
	if n == 1 {
		return "1 argument"
	}
	return strconv.Itoa(n) + " arguments"
}
