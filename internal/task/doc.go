// Package task manages the lifecycle of accepted tasks: an in-memory registry
// of task records, a bounded queue that rejects work once full, and a fixed
// pool of workers that execute queued tasks outside the request cycle.
//
// A record is created pending when a task is accepted and transitions exactly
// once to completed or error. Every accepted task carries its own cancellation
// token so that a caller can abandon it while it is queued or running.
package task
