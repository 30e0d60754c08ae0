// Package openai provides a parse.Backend that extracts structured tasks via
// OpenAI-compatible chat completions with forced function calling.
//
// The parse_task function is declared as a tool whose parameters are a strict
// JSON schema (closed enum for operation, typed optional parameters), and
// tool_choice pins the model to that function, so the answer arrives as JSON
// arguments rather than free text. Any OpenAI-compatible endpoint can be used
// by setting the base URL; the default is the proxy the gateway was built
// against.
package openai
