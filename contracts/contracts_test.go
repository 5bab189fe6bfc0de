package contracts

import (
	"strings"
	"testing"
)

func TestAssert(t *testing.T) {
	if v := Recover(func() { Assert(true, "always") }); v != nil {
		t.Fatalf("unexpected violation: %v", v)
	}

	v := Recover(func() { Assert(false, "1 == 2") })
	if v == nil {
		t.Fatal("expected a violation")
	}
	if v.Check != "1 == 2" {
		t.Errorf("expected check %q, got %q", "1 == 2", v.Check)
	}
	if !strings.Contains(v.Error(), "contract violation") {
		t.Errorf("unexpected error text: %s", v.Error())
	}
}

func TestCheckBounds(t *testing.T) {
	if v := Recover(func() { CheckBounds(0, 3) }); v != nil {
		t.Fatalf("unexpected violation: %v", v)
	}
	if v := Recover(func() { CheckBounds(2, 3) }); v != nil {
		t.Fatalf("unexpected violation: %v", v)
	}
	if v := Recover(func() { CheckBounds(3, 3) }); v == nil {
		t.Fatal("expected out-of-range violation")
	}
	if v := Recover(func() { CheckBounds(-1, 3) }); v == nil {
		t.Fatal("expected negative-index violation")
	}
}

func TestHandler(t *testing.T) {
	var seen *Violation
	prev := SetHandler(func(v *Violation) { seen = v })
	defer SetHandler(prev)

	Recover(func() { Fail("never", "value %d", 42) })

	if seen == nil {
		t.Fatal("handler not invoked")
	}
	if seen.Msg != "value 42" {
		t.Errorf("expected formatted message, got %q", seen.Msg)
	}
	if seen.File == "" || seen.Line == 0 {
		t.Errorf("expected caller info, got %q:%d", seen.File, seen.Line)
	}
}

func TestRecoverPassesForeignPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("expected foreign panic to propagate, got %v", r)
		}
	}()
	Recover(func() { panic("boom") })
}
