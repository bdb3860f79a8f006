package errkind

import (
	"errors"
	"fmt"
	"testing"
)

func TestOf(t *testing.T) {
	base := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, None},
		{"plain", base, Unreachable},
		{"classified", E(RateLimited, "top", base), RateLimited},
		{"wrapped", fmt.Errorf("loading: %w", E(CacheFault, "cache get", base)), CacheFault},
	}
	for _, tt := range tests {
		if got := Of(tt.err); got != tt.want {
			t.Errorf("%s: Of() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: Unauthorized, Op: "top articles", Status: 401}
	want := "top articles: unauthorized (status 401)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	wrapped := E(Unreachable, "search", errors.New("dial tcp: refused"))
	if !errors.Is(wrapped, wrapped.Err) {
		t.Error("expected Unwrap to expose the cause")
	}
}

func TestKindString(t *testing.T) {
	if RateLimited.String() != "rate_limited" {
		t.Errorf("unexpected %q", RateLimited.String())
	}
	if Kind(42).String() != "kind(42)" {
		t.Errorf("unexpected %q", Kind(42).String())
	}
}
