package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		kind      *Error
		err       error
		wantMatch bool
	}{
		"instance of the same root error": {
			kind:      ErrNotFound,
			err:       ErrNotFound,
			wantMatch: true,
		},
		"wrapped root error": {
			kind:      ErrNotFound,
			err:       Wrap(ErrNotFound, "gone"),
			wantMatch: true,
		},
		"double wrapped root error": {
			kind:      ErrNotFound,
			err:       Wrap(Wrap(ErrNotFound, "gone"), "almost"),
			wantMatch: true,
		},
		"different root error": {
			kind:      ErrNotFound,
			err:       ErrUnauthorized,
			wantMatch: false,
		},
		"wrapped different root error": {
			kind:      ErrNotFound,
			err:       Wrap(ErrUnauthorized, "gone"),
			wantMatch: false,
		},
		"stdlib error": {
			kind:      ErrNotFound,
			err:       errors.New("stdlib"),
			wantMatch: false,
		},
		"nil error": {
			kind:      ErrNotFound,
			err:       nil,
			wantMatch: false,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.kind.Is(tc.err); got != tc.wantMatch {
				t.Fatalf("unexpected match result: %v", got)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "meaningless"); err != nil {
		t.Fatalf("want nil, got %+v", err)
	}
}

func TestWrapPreservesMessage(t *testing.T) {
	err := Wrap(ErrState, "cannot process")
	const want = "cannot process: invalid state"
	if got := err.Error(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	// Code 2 is taken by ErrUnauthorized.
	Register(2, "duplicate of unauthorized")
}

func TestRecover(t *testing.T) {
	fail := func() (err error) {
		defer Recover(&err)
		panic("blew up")
	}
	err := fail()
	if !ErrPanic.Is(err) {
		t.Fatalf("want ErrPanic, got %+v", err)
	}
}

func TestStackTraceAttachedOnce(t *testing.T) {
	err := Wrap(Wrap(ErrInput, "inner"), "outer")
	trace := fmt.Sprintf("%+v", err)
	if !strings.Contains(trace, "errors_test.go") {
		t.Fatalf("stack trace missing the creation frame:\n%s", trace)
	}
}
