// Package store implements ports.Store on Redis and in process memory.
//
// Redis is the production backend shared by every replica. The memory store
// matches Redis semantics closely enough for local runs and tests, but its
// state is private to one process. Breaker wraps either backend with a
// circuit breaker so an outage fails fast instead of stacking op timeouts.
package store
