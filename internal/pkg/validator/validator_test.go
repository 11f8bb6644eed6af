package validator

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/staff-ledger/internal/pkg/apperror"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000", // not v7
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"",
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2024-02-29"}
	invalid := []string{"2023-02-29", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		if _, ok := IsValidDate(s); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidClock(t *testing.T) {
	valid := []string{"00:00", "08:30", "23:59"}
	invalid := []string{"24:00", "8:30", "08:60", "0830", ""}
	for _, s := range valid {
		if !IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = true, want false", s)
		}
	}
}

func TestIsValidMonth(t *testing.T) {
	for m := 1; m <= 12; m++ {
		if !IsValidMonth(m) {
			t.Errorf("IsValidMonth(%d) = false, want true", m)
		}
	}
	for _, m := range []int{0, 13, -1} {
		if IsValidMonth(m) {
			t.Errorf("IsValidMonth(%d) = true, want false", m)
		}
	}
}

func TestIsValidDateTime(t *testing.T) {
	if _, ok := IsValidDateTime("2024-01-15T10:30:00+03:00"); !ok {
		t.Error("expected RFC3339 timestamp to be valid")
	}
	if _, ok := IsValidDateTime("2024-01-15 10:30"); ok {
		t.Error("expected non-RFC3339 timestamp to be invalid")
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "staff_id", Message: "staff_id is required"},
		{Field: "end_date", Message: "end_date must not be before start_date"},
	}

	if got := errs.Error(); got != "staff_id: staff_id is required; end_date: end_date must not be before start_date" {
		t.Errorf("Error() = %q", got)
	}
	if m := errs.ToMap(); m["staff_id"] != "staff_id is required" || len(m) != 2 {
		t.Errorf("ToMap() = %v", m)
	}

	var err error = errs
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Error("ValidationErrors should match apperror.ErrInvalidInput")
	}
	var target ValidationErrors
	if !errors.As(err, &target) || len(target) != 2 {
		t.Error("errors.As should recover ValidationErrors")
	}
}
