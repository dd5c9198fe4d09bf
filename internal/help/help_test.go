package help

import (
	"errors"
	"testing"
)

func TestLookupReportsNotImplemented(t *testing.T) {
	_, err := Lookup("anything")
	if !errors.Is(err, ErrNotImplemented) {
		t.Errorf("Lookup() error = %v, want ErrNotImplemented", err)
	}
}
