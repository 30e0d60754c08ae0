// Package dispatch resolves a parsed task to the handler that executes it and
// the concrete arguments it runs with.
//
// The route table pairs every operation of the closed set with a handler, a
// configured default input path and an input kind. Directory operations reduce
// their resolved path to its containing directory before invocation. The
// dispatcher refuses to start when the table misses an operation, so the
// operation set, handler table and default-path table cannot drift apart.
package dispatch
