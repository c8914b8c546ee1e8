// Package locks provides keyed mutexes that serialize lending operations
// per entity.
//
// Two concurrent checkouts against the same item must not both pass the
// availability check when only one copy remains; the same applies to a
// member's loan-limit check. The Registry hands out one mutex per entity id
// so that operations touching different items and different members proceed
// in parallel while operations on the same entity are serialized.
//
// # Ordering
//
// Operations that need both a member lock and an item lock must acquire them
// through LockPair, which always takes the member lock first. A single fixed
// order across all callers rules out deadlock.
//
// # Usage
//
//	unlock := reg.LockPair(memberID, itemID)
//	defer unlock()
package locks
