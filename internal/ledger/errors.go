// Package ledger talks to the remote contract platform: it builds calls,
// simulates them, assembles and signs transactions, submits them, and polls
// for settlement. All failures are classified into a small taxonomy so the
// layers above can route each kind to the right user-facing treatment.
package ledger

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed remote call.
type ErrorKind int

const (
	// KindNetwork covers transport faults before the platform answered.
	KindNetwork ErrorKind = iota

	// KindSimulationRejected means the platform refused the call before any
	// state would change. Recoverable: fix the input or try later.
	KindSimulationRejected

	// KindWalletDeclined means the user cancelled signing. Not a fault.
	KindWalletDeclined

	// KindSubmissionRejected means the node refused the signed transaction
	// (duplicate, congestion). A retry usually helps.
	KindSubmissionRejected

	// KindOnChainFailure means the transaction was included but the
	// contract rejected it. The whole action must be retried.
	KindOnChainFailure

	// KindConfirmationTimeout means settlement status is unknown after
	// bounded polling. The action may still succeed later; the user should
	// check history rather than assume failure.
	KindConfirmationTimeout
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindSimulationRejected:
		return "simulation rejected"
	case KindWalletDeclined:
		return "cancelled"
	case KindSubmissionRejected:
		return "submission rejected"
	case KindOnChainFailure:
		return "failed on chain"
	case KindConfirmationTimeout:
		return "confirmation timed out"
	default:
		return "network error"
	}
}

// CallError is the single error type the pipeline surfaces. Message is
// short and human-readable; Err keeps the underlying cause for wrapping.
type CallError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *CallError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ledger: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("ledger: %s", e.Kind)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// KindOf extracts the classification from an error chain. Unclassified
// errors report KindNetwork.
func KindOf(err error) ErrorKind {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindNetwork
}

// UserMessage returns a short, user-actionable description for any pipeline
// error.
func UserMessage(err error) string {
	var ce *CallError
	if errors.As(err, &ce) {
		switch ce.Kind {
		case KindWalletDeclined:
			return "Signing cancelled."
		case KindSubmissionRejected:
			return "The network did not accept the transaction. Try again in a moment."
		case KindConfirmationTimeout:
			return "Still waiting for confirmation. Check your history before retrying."
		default:
			if ce.Message != "" {
				return ce.Message
			}
			return ce.Kind.String()
		}
	}
	return "Could not reach the network."
}

func newCallError(kind ErrorKind, message string, err error) *CallError {
	return &CallError{Kind: kind, Message: message, Err: err}
}
