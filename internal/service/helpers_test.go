package service

import (
	"errors"
	"testing"
)

func ptr[T any](v T) *T { return &v }

// requireError fails unless err is a service error of the given kind and message.
func requireError(t *testing.T, err error, kind ErrorKind, messageID string) *Error {
	t.Helper()
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *Error %s, got %v", messageID, err)
	}
	if se.Kind != kind {
		t.Errorf("kind = %d, want %d", se.Kind, kind)
	}
	if messageID != "" && se.MessageID != messageID {
		t.Errorf("message = %q, want %q", se.MessageID, messageID)
	}
	return se
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
