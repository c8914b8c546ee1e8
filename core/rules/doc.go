// Package rules defines the error taxonomy shared by the lending engine.
//
// Errors fall into four classes:
//   - Not-found sentinels (ErrItemNotFound, ErrMemberNotFound, ErrLoanNotFound)
//   - Conflict sentinels for unique fields (ErrDuplicateISBN, ErrDuplicateEmail)
//   - Violation: a business rule rejected the operation. It carries the full
//     set of reasons so callers can present all of them, not just the first.
//   - ConsistencyError: an invariant of the engine itself would be broken.
//     This indicates a bug in the orchestration, not invalid input, and the
//     operation is aborted rather than clamped.
//
// # Usage
//
//	if err := registry.CheckEligibility(id, time.Now()); err != nil {
//	    var v *rules.Violation
//	    if errors.As(err, &v) {
//	        for _, r := range v.Reasons { ... }
//	    }
//	}
package rules
