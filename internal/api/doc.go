// Package api exposes the task gateway over HTTP: submitting a task
// description, reading and canceling task records, and the raw file-read
// passthrough. Handlers translate service errors into status codes with
// MapErrorToStatusCode and never return raw internal error strings for 5xx
// responses.
package api
