// Package common defines shared constants and sentinel errors used across
// client and server layers of shipmarket. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Validation errors (form-level presence and range checks).
	ErrValidation = errors.New("validation error")

	// Mint-then-persist errors.
	ErrTransaction      = errors.New("transaction failed")
	ErrTokenIDNotFound  = errors.New("could not extract token id")
	ErrPersistAfterMint = errors.New("mint succeeded but saving failed")

	// Auth errors (invalid or malformed token, bad wallet signature).
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidSignature = errors.New("invalid signature")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects the fields rejected by local form validation.
type ValidationError struct {
	Fields []FieldError
}

// Add records a rejected field.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns nil when no field was rejected.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// TransactionError carries the provider message of a failed wallet or chain call.
// TxHash is empty when the transaction was never broadcast.
type TransactionError struct {
	TxHash string
	Err    error
}

func (e *TransactionError) Error() string {
	if e.TxHash == "" {
		return fmt.Sprintf("%s: %v", ErrTransaction, e.Err)
	}
	return fmt.Sprintf("%s (tx %s): %v", ErrTransaction, e.TxHash, e.Err)
}

func (e *TransactionError) Unwrap() []error { return []error{ErrTransaction, e.Err} }

// TokenIDError is returned when a mined receipt carries no matching event.
type TokenIDError struct {
	TxHash string
	Event  string
}

func (e *TokenIDError) Error() string {
	return fmt.Sprintf("%s: no %s event in tx %s", ErrTokenIDNotFound, e.Event, e.TxHash)
}

func (e *TokenIDError) Unwrap() error { return ErrTokenIDNotFound }

// PersistError is returned when the on-chain mint succeeded but the database
// write did not. The token exists on-chain; support needs the tx hash.
type PersistError struct {
	TxHash  string
	TokenID string
	Err     error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s: token %s was minted in tx %s, please contact support with this transaction hash: %v",
		ErrPersistAfterMint, e.TokenID, e.TxHash, e.Err)
}

func (e *PersistError) Unwrap() []error { return []error{ErrPersistAfterMint, e.Err} }
