// Package domain contains the command schema of the task gateway: the closed
// set of supported operations, the sparse parameter record, the parsed task
// produced from a free-text description, and the error kinds shared by the
// parsing, dispatch and execution phases. It is independent of any specific
// language model, transport or storage mechanism.
package domain
