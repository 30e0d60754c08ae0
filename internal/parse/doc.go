// Package parse turns a free-text task description into a validated
// domain.ParsedTask through schema-constrained extraction.
//
// A Backend forwards the description to a language model together with a
// strict function declaration (closed enum for the operation, typed optional
// parameters) and forces the model to answer by calling that function. The
// Parser bounds the call with a timeout, then re-validates the returned
// arguments: the upstream model is not a trusted boundary, so enum membership
// and required fields are checked again here and every failure is reported as
// domain.ErrParse or domain.ErrSchemaViolation.
//
// Backends live in internal/platform (openai, gemini).
package parse
