package domain

import (
	"fmt"
)

// Operation names one of the file-processing operations a task can request.
type Operation string

// Supported operations. Adding one here requires a matching entry in the
// dispatch handler table and default-path table; the dispatch tests fail
// otherwise.
const (
	OperationFormatMarkdown      Operation = "format_markdown"
	OperationCountWeekdays       Operation = "count_weekdays"
	OperationSortJSON            Operation = "sort_json"
	OperationExtractRecentLogs   Operation = "extract_recent_logs"
	OperationCreateMarkdownIndex Operation = "create_markdown_index"
	OperationExtractEmailSender  Operation = "extract_email_sender"
	OperationExtractCreditCard   Operation = "extract_credit_card"
	OperationCalculateGoldSales  Operation = "calculate_gold_sales"
	OperationFindSimilarComments Operation = "find_similar_comments"
)

// operations lists every member of the closed set in declaration order.
var operations = []Operation{
	OperationFormatMarkdown,
	OperationCountWeekdays,
	OperationSortJSON,
	OperationExtractRecentLogs,
	OperationCreateMarkdownIndex,
	OperationExtractEmailSender,
	OperationExtractCreditCard,
	OperationCalculateGoldSales,
	OperationFindSimilarComments,
}

// Operations returns a copy of the closed operation set.
func Operations() []Operation {
	out := make([]Operation, len(operations))
	copy(out, operations)
	return out
}

// OperationNames returns the operation values as strings, suitable for a
// schema enum.
func OperationNames() []string {
	names := make([]string, len(operations))
	for i, op := range operations {
		names[i] = string(op)
	}
	return names
}

// Valid reports whether op is a member of the closed set.
func (op Operation) Valid() bool {
	for _, known := range operations {
		if op == known {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (op Operation) String() string {
	return string(op)
}

// ParseOperation converts a raw string into an Operation, failing with
// ErrSchemaViolation when the value is not part of the closed set.
func ParseOperation(raw string) (Operation, error) {
	op := Operation(raw)
	if !op.Valid() {
		return "", fmt.Errorf("%w: unknown operation %q", ErrSchemaViolation, raw)
	}
	return op, nil
}
