// Package session implements the client-side session guard.
//
// A Guard owns the lifecycle of the single stored bearer credential: it
// stores it (Acquire), validates it against the remote API (Verify), drops
// it (Release) and tells views whether they may render (Gate). Views never
// read the credential store or call the verify endpoint themselves.
//
// State machine:
//
//	UNKNOWN ──verify, credential──▶ VERIFYING ──truthy──▶ AUTHENTICATED
//	   │                                │
//	   └──verify, no credential──┐      └──failure, evict──┐
//	                             ▼                         ▼
//	                          UNAUTHENTICATED ◀──release── any
//
// Acquire puts the guard back into UNKNOWN until the next Verify.
package session
