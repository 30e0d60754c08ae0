// Package gemini provides a parse.Backend that uses Google's Gemini API for
// extracting structured tasks from natural-language descriptions.
//
// This package is an infrastructure adapter: it translates the provider-neutral
// parse_task declaration into a genai FunctionDeclaration, forces the model to
// call it with FunctionCallingConfigModeAny, and hands the resulting arguments
// back to the parser as JSON. Safety blocks and answers without a function
// call are mapped onto the parse package's sentinel errors.
package gemini
