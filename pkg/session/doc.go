/*
Package session serializes access to conversation sessions.

Requests for the same session run one at a time: a refcounted in-process mutex
guards each session ID, and an optional DistributedLocker extends the guarantee
across replicas sharing a ContextStore.
*/
package session
