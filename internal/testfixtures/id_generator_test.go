package testfixtures

import "testing"

func TestIDGeneratorProducesSequentialIDs(t *testing.T) {
	gen := NewIDGenerator("reservation")

	first := gen.Next()
	second := gen.Next()

	if first != "reservation-1" || second != "reservation-2" {
		t.Fatalf("unexpected identifiers: %q, %q", first, second)
	}
}

func TestIDGeneratorDefaultsPrefix(t *testing.T) {
	gen := NewIDGenerator("")
	if next := gen.Next(); next != "id-1" {
		t.Fatalf("expected id-1 from empty prefix, got %q", next)
	}
}

func TestIDGeneratorCanReset(t *testing.T) {
	gen := NewIDGenerator("task")
	_ = gen.Next()
	gen.SetCounter(0)
	gen.SetPrefix("tsk")

	if next := gen.Next(); next != "tsk-1" {
		t.Fatalf("expected tsk-1 after reset, got %q", next)
	}
}

func TestNilIDGeneratorNextFuncIsSafe(t *testing.T) {
	var gen *IDGenerator
	if got := gen.NextFunc()(); got != "" {
		t.Fatalf("expected empty identifier from nil generator, got %q", got)
	}
}
