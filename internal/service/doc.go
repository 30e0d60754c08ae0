// Package service contains the task pipeline use cases: turning a free-text
// description into an accepted background task, reading its record, and
// canceling it.
//
// SubmitTask runs the synchronous phase (parse, then dispatch validation) and
// only registers and queues a task once both succeed, so every client-visible
// failure of that phase happens before a task id exists. Execution failures are
// recorded on the task record by the runner and never returned here.
package service
