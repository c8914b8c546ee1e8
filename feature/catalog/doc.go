// Package catalog owns the item inventory: registration of titles and the
// per-item copy counters.
//
// Reserve and Release are the atomic primitives the rest of the engine
// builds on. Each is a single conditional UPDATE so the check and the
// mutation cannot be separated by a concurrent writer; the row guard
// (available_copies > 0, respectively available_copies < total_copies)
// enforces the availability bound at the database.
package catalog
