package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Not-found errors. Always surfaced to the caller, never retried internally.
var (
	ErrItemNotFound   = errors.New("item not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrLoanNotFound   = errors.New("loan not found")
)

// Conflict errors for unique fields. The caller must pick a new value.
var (
	ErrDuplicateISBN         = errors.New("isbn already registered")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrDuplicateMemberNumber = errors.New("member number already registered")
)

// Reference errors: an entity cannot be deleted while a non-terminal loan
// references it.
var (
	ErrItemOnLoan     = errors.New("item has active loans")
	ErrMemberHasLoans = errors.New("member has active loans")
)

// Reason identifies a single business rule that rejected an operation.
type Reason string

const (
	ReasonNotActive           Reason = "not_active"
	ReasonExpired             Reason = "expired"
	ReasonLoanLimitReached    Reason = "loan_limit_reached"
	ReasonHasOverdue          Reason = "has_overdue"
	ReasonNoCopiesAvailable   Reason = "no_copies_available"
	ReasonInsufficientCopies  Reason = "insufficient_copies"
	ReasonAlreadyReturned     Reason = "already_returned"
	ReasonRenewalLimitReached Reason = "renewal_limit_reached"
	ReasonOverdue             Reason = "overdue"
)

// Violation reports that one or more business rules rejected an operation.
// Every applicable reason is included, so a member who is both suspended and
// over the loan limit sees both facts at once.
type Violation struct {
	Op      string
	Reasons []Reason
}

// Reject builds a Violation for the given operation.
func Reject(op string, reasons ...Reason) *Violation {
	return &Violation{Op: op, Reasons: reasons}
}

func (v *Violation) Error() string {
	parts := make([]string, len(v.Reasons))
	for i, r := range v.Reasons {
		parts[i] = string(r)
	}
	return fmt.Sprintf("%s rejected: %s", v.Op, strings.Join(parts, ", "))
}

// Has reports whether the violation includes the given reason.
func (v *Violation) Has(reason Reason) bool {
	for _, r := range v.Reasons {
		if r == reason {
			return true
		}
	}
	return false
}

// ConsistencyError reports that an engine invariant would be broken.
// It is distinct from Violation: consistency errors indicate a bug in the
// orchestration (for example a release that would push available copies past
// the total), and must abort the operation instead of clamping values.
type ConsistencyError struct {
	Op     string
	Detail string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency violation in %s: %s", e.Op, e.Detail)
}

// Inconsistent builds a ConsistencyError for the given operation.
func Inconsistent(op, format string, args ...any) *ConsistencyError {
	return &ConsistencyError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
