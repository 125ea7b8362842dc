package errors

import "errors"

var (
	ErrInvalidRecipientCount = errors.New("recipient count must be a whole number of at least 1 with at most 15 digits")
	ErrInvalidPercent        = errors.New("percent amount must be between 0 and 100")
	ErrInvalidCurrency       = errors.New("currency amount must be non-negative with at most 15 integer and 18 decimal digits")
	ErrInvalidTotalReward    = errors.New("total reward must be non-negative with at most 15 integer and 18 decimal digits")
	ErrInvalidField          = errors.New("unknown payout row field")
	ErrInvalidInput          = errors.New("payout structure input is invalid")

	// ErrDivisionByZero is returned by the conversion functions when a divisor is zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrUndefinedConversion is reported (not thrown) when a derived field cannot be computed.
	ErrUndefinedConversion = errors.New("conversion is undefined")

	ErrRowNotFound       = errors.New("payout row not found")
	ErrStructureNotFound = errors.New("payout structure not found")
	ErrTooManyRows       = errors.New("payout structure row limit reached")
	ErrForbidden         = errors.New("payout structure belongs to another operator")
	ErrConflict          = errors.New("payout structure already exists")

	ErrOutboxConflict = errors.New("outbox event id reused with a different payload")
	ErrOutboxNotFound = errors.New("outbox message not found")
)
