package errors

import (
	"testing"
)

func TestValidationErrorUnwrapsToConfigInvalid(t *testing.T) {
	err := NewValidationError("leverage", 0.0, "must be positive")
	if !Is(err, ErrConfigInvalid) {
		t.Errorf("%v does not unwrap to ErrConfigInvalid", err)
	}

	var verr *ValidationError
	if !As(err, &verr) {
		t.Fatal("As failed to recover *ValidationError")
	}
	if verr.Field != "leverage" {
		t.Errorf("field = %q, want leverage", verr.Field)
	}
}

func TestDataErrorUnwrap(t *testing.T) {
	err := NewDataError("futures", "no usable rows", ErrNoData)
	if !Is(err, ErrNoData) {
		t.Errorf("%v does not unwrap to ErrNoData", err)
	}

	bare := NewDataError("options", "parsing csv", nil)
	if bare.Error() == "" {
		t.Error("empty error string")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) must return nil")
	}
	err := Wrap(ErrNoData, "loading dataset")
	if !Is(err, ErrNoData) {
		t.Errorf("%v lost the wrapped sentinel", err)
	}
	if Wrapf(nil, "run %d", 1) != nil {
		t.Error("Wrapf(nil) must return nil")
	}
}
