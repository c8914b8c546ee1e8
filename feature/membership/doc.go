// Package membership owns member records and borrowing eligibility.
//
// Eligibility is a pure predicate over an explicit snapshot: the member row
// plus the member's active loans as of a caller-supplied instant. It never
// reads the database itself, so the lending service can evaluate it inside
// whatever transaction and lock scope it holds.
//
// A rejected member gets every applicable reason at once (not active,
// expired, loan limit reached, holding overdue loans), not just the first
// failing check.
package membership
