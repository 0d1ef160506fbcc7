package utils

import (
	"reflect"
	"runtime"
	"strings"
)

// GetFunctionName returns the name of the function passed as an argument.
// If the argument is nil, it returns "<nil>". If the argument is not a function,
// it will return "<not a function>".
func GetFunctionName(f any) string {
	if IsNilish(f) {
		return "<nil>"
	}

	funcPtr := runtime.FuncForPC(reflect.ValueOf(f).Pointer())

	if funcPtr == nil {
		return "<not a function>"
	}

	return funcPtr.Name()
}

// GetShortFunctionName returns the bare name of the function, without the
// package path prefix that runtime.FuncForPC includes. Anonymous functions
// keep their "funcN" suffix (e.g. "TestWrap.func1" becomes "func1").
func GetShortFunctionName(f any) string {
	full := GetFunctionName(f)

	if idx := strings.LastIndexByte(full, '/'); idx >= 0 {
		full = full[idx+1:]
	}

	if idx := strings.LastIndexByte(full, '.'); idx >= 0 {
		full = full[idx+1:]
	}

	// MakeFunc-produced and method values carry decorations like "-fm".
	full = strings.TrimSuffix(full, "-fm")

	return full
}
