package testutil

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "foodtracker/internal/errors"
)

// AssertAppError fails unless err is an *AppError carrying expectedCode and
// the status code of that code's sentinel.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected error %s, got %T: %v", expectedCode, err, err)
	}
	if appErr.Code != expectedCode {
		t.Fatalf("expected error %s, got %s (%s)", expectedCode, appErr.Code, appErr.Message)
	}
	if appErr.StatusCode == 0 {
		t.Errorf("error %s has no HTTP status", appErr.Code)
	}
}

// AssertNoError stops the test on any error.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertDecimal compares amounts and money by value, so "1.50" matches
// "1.5" however the database scanned it back.
func AssertDecimal(t *testing.T, name, want string, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected %s %s, got %s", name, want, got)
	}
}
