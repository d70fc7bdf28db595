package accounts

import (
	"errors"
	"testing"

	_ "github.com/andino-erp/andino-erp/testing"

	"github.com/andino-erp/andino-erp/internal/ledger/shared"
)

func TestFormatCodeDigits(t *testing.T) {
	cases := map[string]string{
		"1":         "1",
		"11":        "1.1",
		"110":       "1.1.00",
		"1101":      "1.1.01",
		"11011":     "1.1.01.00001",
		"110100001": "1.1.01.00001",
	}
	for raw, want := range cases {
		got, err := FormatCode(raw)
		if err != nil {
			t.Fatalf("FormatCode(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("FormatCode(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestFormatCodeDotted(t *testing.T) {
	got, err := FormatCode("1.1.1.1")
	if err != nil {
		t.Fatalf("FormatCode: %v", err)
	}
	if got != "1.1.01.00001" {
		t.Fatalf("FormatCode dotted = %q", got)
	}
}

func TestFormatCodeIdempotent(t *testing.T) {
	for _, raw := range []string{"1", "42", "1101", "110100001", "2.1.03", "1.1.01.00001"} {
		once, err := FormatCode(raw)
		if err != nil {
			t.Fatalf("FormatCode(%q): %v", raw, err)
		}
		twice, err := FormatCode(once)
		if err != nil {
			t.Fatalf("FormatCode(%q): %v", once, err)
		}
		if once != twice {
			t.Fatalf("FormatCode not stable: %q -> %q -> %q", raw, once, twice)
		}
	}
}

func TestFormatCodeTooLong(t *testing.T) {
	if _, err := FormatCode("1234567890"); !errors.Is(err, shared.ErrCodeTooLong) {
		t.Fatalf("expected ErrCodeTooLong for 10 digits, got %v", err)
	}
	if _, err := FormatCode("1.1.01.00001.9"); !errors.Is(err, shared.ErrCodeTooLong) {
		t.Fatalf("expected ErrCodeTooLong for 5 segments, got %v", err)
	}
	if _, err := FormatCode("1.1.123"); !errors.Is(err, shared.ErrCodeTooLong) {
		t.Fatalf("expected ErrCodeTooLong for oversized segment, got %v", err)
	}
}

func TestFormatCodeInvalid(t *testing.T) {
	for _, raw := range []string{"", "a", "1.x", "1..1", "1,1"} {
		if _, err := FormatCode(raw); !errors.Is(err, shared.ErrInvalidCodeFormat) {
			t.Fatalf("expected ErrInvalidCodeFormat for %q, got %v", raw, err)
		}
	}
}

func TestDepthAndParentCode(t *testing.T) {
	if Depth("1.1.01.00001") != 4 {
		t.Fatalf("unexpected depth")
	}
	if Depth("1") != 1 {
		t.Fatalf("unexpected depth for root")
	}
	if ParentCode("1.1.01.00001") != "1.1.01" {
		t.Fatalf("unexpected parent code")
	}
	if ParentCode("1") != "" {
		t.Fatalf("root must have no parent code")
	}
}
