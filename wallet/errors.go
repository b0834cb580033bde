package wallet

import "errors"

// Error taxonomy for wallet and payment operations. Callers distinguish
// outcomes with errors.Is; ErrUserCancelled is benign and must not be
// rendered as a failure.
var (
	// ErrUserCancelled means the user aborted an interactive step.
	// The session silently returns to its prior state.
	ErrUserCancelled = errors.New("cancelled by user")

	// ErrConnection covers non-cancellation connect failures
	// (network unreachable, malformed session).
	ErrConnection = errors.New("wallet connection failed")

	// ErrNotConnected means a signing operation was attempted without an
	// active account. The caller must connect first.
	ErrNotConnected = errors.New("wallet not connected")

	// ErrSigningRejected means the external wallet explicitly rejected
	// the transaction.
	ErrSigningRejected = errors.New("signing rejected by wallet")

	// ErrSigningInProgress means another interactive connect/sign operation
	// is already awaiting the user.
	ErrSigningInProgress = errors.New("another signing operation is in progress")

	// ErrNetworkUnavailable means the chain node could not be reached in time.
	ErrNetworkUnavailable = errors.New("network unavailable")

	// ErrSubmissionRejected means the node refused the signed transaction
	// (insufficient balance, stale parameters).
	ErrSubmissionRejected = errors.New("transaction rejected by network")

	// ErrInvalidIntent means the payment intent failed validation.
	ErrInvalidIntent = errors.New("invalid payment intent")

	// ErrNoSession means silent restoration found no valid prior session.
	ErrNoSession = errors.New("no prior wallet session")
)
