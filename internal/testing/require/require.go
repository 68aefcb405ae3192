// Package require implements a minimal set of test assertion helpers, in
// the same spirit as wazero's own internal/testing/require package: small,
// dependency-light wrappers around (*testing.T).Fatal that fail the test
// immediately rather than continuing to run once an expectation is
// violated, so follow-on assertions never dereference state that the
// earlier failure left half-built.
package require

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestingT is the subset of *testing.T this package needs, so helpers can
// be used from table-driven subtests and from property tests that wrap
// *testing.T in their own reporter.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Equal fails the test unless cmp.Equal(want, got) using go-cmp's
// reflection-based deep-equality; this is what lets Equal compare structs,
// slices and maps without callers hand-rolling comparisons.
func Equal[V any](t TestingT, want, got V, msgAndArgs ...any) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected value (-want +got):\n%s%s", diff, formatMsg(msgAndArgs))
	}
}

// True fails the test unless got is true.
func True(t TestingT, got bool, msgAndArgs ...any) {
	t.Helper()
	if !got {
		t.Fatalf("expected true, was false%s", formatMsg(msgAndArgs))
	}
}

// False fails the test unless got is false.
func False(t TestingT, got bool, msgAndArgs ...any) {
	t.Helper()
	if got {
		t.Fatalf("expected false, was true%s", formatMsg(msgAndArgs))
	}
}

// NoError fails the test unless err is nil.
func NoError(t TestingT, err error, msgAndArgs ...any) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v%s", err, formatMsg(msgAndArgs))
	}
}

// Error fails the test unless err is non-nil.
func Error(t TestingT, err error, msgAndArgs ...any) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error, got nil%s", formatMsg(msgAndArgs))
	}
}

// ErrorIs fails the test unless err is target or wraps it through a chain
// of single-error Unwrap methods. Is methods and Unwrap() []error are not
// consulted.
func ErrorIs(t TestingT, err, target error, msgAndArgs ...any) {
	t.Helper()
	if !isError(err, target) {
		t.Fatalf("expected error %v to wrap %v%s", err, target, formatMsg(msgAndArgs))
	}
}

// Zero fails the test unless got is the zero value of its type.
func Zero[V any](t TestingT, got V, msgAndArgs ...any) {
	t.Helper()
	var zero V
	if diff := cmp.Diff(zero, got); diff != "" {
		t.Fatalf("expected zero value (-want +got):\n%s%s", diff, formatMsg(msgAndArgs))
	}
}

// Nil fails the test unless got is nil.
func Nil(t TestingT, got any, msgAndArgs ...any) {
	t.Helper()
	if !isNil(got) {
		t.Fatalf("expected nil, got %v%s", got, formatMsg(msgAndArgs))
	}
}

// NotNil fails the test unless got is non-nil.
func NotNil(t TestingT, got any, msgAndArgs ...any) {
	t.Helper()
	if isNil(got) {
		t.Fatalf("expected non-nil value%s", formatMsg(msgAndArgs))
	}
}

// Len fails the test unless got has the given length.
func Len(t TestingT, want int, got any, msgAndArgs ...any) {
	t.Helper()
	v := reflect.ValueOf(got)
	if v.Len() != want {
		t.Fatalf("expected length %d, got %d%s", want, v.Len(), formatMsg(msgAndArgs))
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}

func isError(err, target error) bool {
	for err != nil {
		if err == target {
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}

func formatMsg(msgAndArgs []any) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	format, ok := msgAndArgs[0].(string)
	if !ok {
		return fmt.Sprintf(" (%v)", msgAndArgs[0])
	}
	return " (" + fmt.Sprintf(format, msgAndArgs[1:]...) + ")"
}

var _ TestingT = (*testing.T)(nil)
