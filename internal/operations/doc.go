// Package operations implements the stateless file handlers a parsed task can
// be dispatched to.
//
// Every handler reads one resolved input path (a file, a directory, or for
// gold sales a database DSN), writes its result only to the output path, and
// reports failures wrapped in domain.ErrOperation. Handlers carry no state
// between invocations, so a single Set is shared by all workers.
package operations
