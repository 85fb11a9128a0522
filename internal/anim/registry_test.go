package anim

import (
	"strings"
	"testing"
)

type nopRuntime struct{}

func (nopRuntime) Load(Source) (Skeleton, error) { return nil, nil }

func TestRegisterAndOpen(t *testing.T) {
	Register("test-runtime", nopRuntime{})

	rt, err := Open("test-runtime")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if rt == nil {
		t.Fatal("Open returned a nil runtime")
	}
}

func TestOpenUnknownRuntime(t *testing.T) {
	_, err := Open("no-such-runtime")
	if err == nil {
		t.Fatal("Open succeeded for an unregistered runtime")
	}
	if !strings.Contains(err.Error(), "no-such-runtime") {
		t.Errorf("error %q does not name the missing runtime", err)
	}
}

func TestRegisterNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register(nil) did not panic")
		}
	}()
	Register("nil-runtime", nil)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("dup-runtime", nopRuntime{})
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register did not panic")
		}
	}()
	Register("dup-runtime", nopRuntime{})
}
