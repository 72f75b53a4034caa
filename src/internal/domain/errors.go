package domain

import (
	"errors"
	"strings"
)

type ErrorKind string

const (
	KindMalformedTransfer      ErrorKind = "MALFORMED_TRANSFER"
	KindAccountNotFound        ErrorKind = "ACCOUNT_NOT_FOUND"
	KindInsufficientFunds      ErrorKind = "INSUFFICIENT_FUNDS"
	KindConcurrentModification ErrorKind = "CONCURRENT_MODIFICATION"
	KindMalformedInput         ErrorKind = "MALFORMED_INPUT"
)

const (
	MsgBadRequest             = "Bad request"
	MsgSameAccount            = "Source account ID cannot be equal to target account ID"
	MsgNonPositiveAmount      = "Transfer amount must be greater than zero"
	MsgAmountPrecision        = "Transfer amount exceeds supported precision"
	MsgAccountNotFound        = "Account ID not found"
	MsgInsufficientFunds      = "Not enough money on source account."
	MsgConcurrentModification = "Account was modified concurrently, retry the request"
	MsgLockTimeout            = "Timed out waiting for account lock, retry the request"
	MsgInvalidID              = "Invalid ID parameter. Must be integer"
)

// Error is a classified failure. Sentinels below carry no message and match any
// Error of the same kind through errors.Is.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

var (
	ErrMalformedTransfer      = &Error{Kind: KindMalformedTransfer}
	ErrAccountNotFound        = &Error{Kind: KindAccountNotFound}
	ErrInsufficientFunds      = &Error{Kind: KindInsufficientFunds}
	ErrConcurrentModification = &Error{Kind: KindConcurrentModification}
	ErrMalformedInput         = &Error{Kind: KindMalformedInput}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.ToLower(strings.ReplaceAll(string(e.Kind), "_", " "))
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func NewMalformedTransfer(message string) error {
	return &Error{Kind: KindMalformedTransfer, Message: message}
}

func NewAccountNotFound() error {
	return &Error{Kind: KindAccountNotFound, Message: MsgAccountNotFound}
}

func NewInsufficientFunds() error {
	return &Error{Kind: KindInsufficientFunds, Message: MsgInsufficientFunds}
}

func NewConcurrentModification(message string, cause error) error {
	if message == "" {
		message = MsgConcurrentModification
	}
	return &Error{Kind: KindConcurrentModification, Message: message, Err: cause}
}

func NewMalformedInput(message string, cause error) error {
	return &Error{Kind: KindMalformedInput, Message: message, Err: cause}
}

// KindOf reports the classification of err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

// MessageOf returns the user-facing message of a classified error.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return ""
}

// IsRetryable reports whether resubmitting the same request may succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}
