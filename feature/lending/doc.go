// Package lending implements the loan ledger and the lending service, the
// orchestration core of the engine.
//
// The Ledger owns loan records and their state transitions: a loan is opened
// by a successful checkout, may be extended while it is neither overdue nor
// at the renewal limit, and becomes terminal once closed.
//
// The Service coordinates the catalog, the membership registry and the
// ledger. Checkout, Return and Renew each run under per-entity locks and a
// single database transaction, so a failure after partial mutation rolls the
// whole call back and concurrent calls against the same item or member are
// serialized. Calls against different entities proceed in parallel.
package lending
