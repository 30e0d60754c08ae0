package parse

import "context"

//go:generate mockgen -source=backend.go -destination=mocks/mock_backend.go -package=mocks

// Request is a single extraction call.
type Request struct {
	// Description is the raw task description supplied by the caller.
	Description string
	// Instruction is the system instruction rendered from the prompt template.
	Instruction string
}

// Backend issues one schema-constrained call to a language model and returns
// the raw JSON arguments of the forced parse_task function call.
type Backend interface {
	// ExtractArguments performs exactly one outbound call. Transport and
	// provider faults are returned as-is; a response that carries no function
	// call is reported with ErrNoFunctionCall.
	ExtractArguments(ctx context.Context, req Request) ([]byte, error)

	// Name identifies the backend in logs.
	Name() string
}
