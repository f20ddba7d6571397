package domain

import "errors"

var (
	// ErrMalformedInstruction is returned when the instruction envelope cannot be decoded
	ErrMalformedInstruction = errors.New("malformed instruction")

	// ErrInvalidArgument is returned when a supplied account does not match its derived address or role
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAlreadyOwned is returned when an ownership record already exists for the (subject, holder, rarity) triple
	ErrAlreadyOwned = errors.New("card already owned")

	// ErrCounterOverflow is returned when a checked increment would overflow
	ErrCounterOverflow = errors.New("counter overflow")

	// ErrDerivationExhausted is returned when no canonical address exists within the salt range
	ErrDerivationExhausted = errors.New("derivation exhausted")

	// ErrCorruptState is returned when stored bytes do not decode to the expected shape
	ErrCorruptState = errors.New("corrupt state")

	// ErrInsufficientFunds is returned when the payer cannot fund a new account
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountAlreadyInUse is returned when allocating an address that is already funded
	ErrAccountAlreadyInUse = errors.New("account already in use")

	// ErrAccountNotFound is returned when a required account does not exist
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvocationConflict is returned when the host rejects an invocation because of a
	// concurrent invocation touching the same accounts. Callers resubmit.
	ErrInvocationConflict = errors.New("invocation conflict")
)

// IsCallerError reports whether err is a business or input rejection that resubmitting
// the same invocation cannot fix
func IsCallerError(err error) bool {
	return errors.Is(err, ErrMalformedInstruction) ||
		errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrAlreadyOwned) ||
		errors.Is(err, ErrInsufficientFunds)
}
