// Package job tracks upload jobs through their lifecycle. A job is created
// PENDING against an existing manifest, moves to RUNNING when its entries
// are handed to the transfer collaborator, and ends COMPLETED, FAILED or
// CANCELLED. Transitions are persisted with a guarded update so concurrent
// actors cannot race a job into an illegal state.
package job
