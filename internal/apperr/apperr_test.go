package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{ErrInvalidInput, "invalid_input"},
		{ErrPayloadTooLarge, "payload_too_large"},
		{ErrNotFound, "not_found"},
		{ErrExpired, "expired"},
		{ErrForbidden, "forbidden"},
		{ErrUnavailable, "unavailable"},
		{ErrCorrupt, "corrupt"},
		{ErrConflict, "conflict"},
		{errors.New("boom"), "internal"},
		{nil, "internal"},
	}
	for _, tc := range cases {
		if got := Kind(tc.err); got != tc.want {
			t.Errorf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestKindWrapped(t *testing.T) {
	err := fmt.Errorf("%w: minio: connection refused", ErrUnavailable)
	if got := Kind(err); got != "unavailable" {
		t.Fatalf("Kind(wrapped) = %q, want unavailable", got)
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(fmt.Errorf("%w: dial tcp", ErrUnavailable)) {
		t.Error("wrapped ErrUnavailable should be retryable")
	}
	if Retryable(ErrNotFound) {
		t.Error("ErrNotFound should not be retryable")
	}
	if Retryable(nil) {
		t.Error("nil should not be retryable")
	}
}
