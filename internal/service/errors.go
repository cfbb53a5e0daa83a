package service

import "fmt"

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a client-facing failure. MessageID is an i18n message key.
type Error struct {
	Kind      ErrorKind
	MessageID string
	Data      map[string]any
	Fields    map[string]string
}

func (e *Error) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("%s %v", e.MessageID, e.Data)
	}
	return e.MessageID
}

func newError(kind ErrorKind, messageID string, data map[string]any) *Error {
	return &Error{Kind: kind, MessageID: messageID, Data: data}
}

func invalid(messageID string) *Error {
	return newError(KindValidation, messageID, nil)
}

func notFound(messageID string, data map[string]any) *Error {
	return newError(KindNotFound, messageID, data)
}

func conflict(messageID string, data map[string]any) *Error {
	return newError(KindConflict, messageID, data)
}
