package parse

import (
	"errors"

	"github.com/phrazzld/taskgate/internal/domain"
)

// Function declaration shared by every backend.
const (
	FunctionName        = "parse_task"
	FunctionDescription = "Parse a task description into structured components"
)

// Top-level argument names of the task function.
const (
	FieldInputFiles = "input_files"
	FieldOperation  = "operation"
	FieldParameters = "parameters"
	FieldOutputFile = "output_file"
)

// Field describes one property of the task function schema.
type Field struct {
	Name        string
	Description string
}

// ParameterFields are the optional, string-typed members of "parameters".
var ParameterFields = []Field{
	{Name: "weekday", Description: "Weekday name for count_weekdays, e.g. Wednesday"},
	{Name: "script_url", Description: "URL of a script referenced by the task"},
	{Name: "llm_instruction", Description: "Free-form instruction for the operation"},
}

// Descriptions of the top-level properties.
var (
	InputFilesDescription = "List of input file paths"
	OperationDescription  = "The operation to perform"
	OutputFileDescription = "Path of the file the result is written to"
)

// RequiredFields are the properties the model must always supply.
var RequiredFields = []string{FieldOperation, FieldOutputFile}

// OperationEnum returns the closed set of operation names offered to the model.
func OperationEnum() []string {
	return domain.OperationNames()
}

// ErrNoFunctionCall is returned by backends when the model answered without
// calling the task function. The parser reports it as a schema violation.
var ErrNoFunctionCall = errors.New("model response contains no parse_task call")

// ErrBlocked is returned by backends when the provider refused to answer.
var ErrBlocked = errors.New("model response blocked by provider")
