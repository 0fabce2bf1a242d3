// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure.
type Kind uint8

const (
	KindValidation Kind = iota + 1 // malformed request, unsupported chain
	KindCrypto                     // bad mnemonic, unparsable key, signer mismatch
	KindFunds                      // balance or UTXO total cannot cover amount+fee
	KindProvider                   // node/indexer failure or malformed reply
	KindBroadcast                  // transaction rejected by the network
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindCrypto:
		return "crypto"
	case KindFunds:
		return "funds"
	case KindProvider:
		return "provider"
	case KindBroadcast:
		return "broadcast"
	}
	return "unknown"
}

// Named failure modes callers match on with errors.Is.
var (
	ErrInvalidMnemonic      = errors.New("invalid mnemonic")
	ErrUnsupportedKeyFormat = errors.New("unsupported private key format")
	ErrSignerMismatch       = errors.New("signer does not match sender address")
	ErrInsufficientFunds    = errors.New("insufficient funds")
)

// Error attaches a Kind to an underlying error.
type Error struct {
	kind Kind
	err  error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.kind, e.err) }
func (e *Error) Unwrap() error { return e.err }
func (e *Error) Kind() Kind    { return e.kind }

// KindOf returns the Kind carried by err, or 0 when err is untyped.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.kind
	}
	return 0
}

func Validationf(format string, args ...any) error {
	return &Error{kind: KindValidation, err: fmt.Errorf(format, args...)}
}

func Cryptof(format string, args ...any) error {
	return &Error{kind: KindCrypto, err: fmt.Errorf(format, args...)}
}

func Fundsf(format string, args ...any) error {
	return &Error{kind: KindFunds, err: fmt.Errorf(format, args...)}
}

func Providerf(format string, args ...any) error {
	return &Error{kind: KindProvider, err: fmt.Errorf(format, args...)}
}

func Broadcastf(format string, args ...any) error {
	return &Error{kind: KindBroadcast, err: fmt.Errorf(format, args...)}
}
