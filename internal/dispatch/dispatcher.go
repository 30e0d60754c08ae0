package dispatch

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/phrazzld/taskgate/internal/domain"
	"github.com/phrazzld/taskgate/internal/operations"
)

// ErrIncompleteTable is returned by New when an operation has no handler or no
// input kind.
var ErrIncompleteTable = errors.New("dispatch table is incomplete")

// InputKind tells whether a handler reads a file or a directory.
type InputKind int

const (
	// InputFile handlers receive the resolved path unchanged.
	InputFile InputKind = iota
	// InputDirectory handlers receive the directory containing the resolved path.
	InputDirectory
)

// String implements fmt.Stringer.
func (k InputKind) String() string {
	if k == InputDirectory {
		return "directory"
	}
	return "file"
}

// inputKinds must name every operation.
var inputKinds = map[domain.Operation]InputKind{
	domain.OperationFormatMarkdown:      InputFile,
	domain.OperationCountWeekdays:       InputFile,
	domain.OperationSortJSON:            InputFile,
	domain.OperationExtractRecentLogs:   InputDirectory,
	domain.OperationCreateMarkdownIndex: InputDirectory,
	domain.OperationExtractEmailSender:  InputFile,
	domain.OperationExtractCreditCard:   InputFile,
	domain.OperationCalculateGoldSales:  InputFile,
	domain.OperationFindSimilarComments: InputFile,
}

// KindOf returns the input kind of op.
func KindOf(op domain.Operation) (InputKind, bool) {
	k, ok := inputKinds[op]
	return k, ok
}

// Route is the dispatch entry of one operation.
type Route struct {
	Handler      operations.Handler
	DefaultInput string
	Kind         InputKind
}

// Resolved is a task ready for execution.
type Resolved struct {
	Operation domain.Operation
	Handler   operations.Handler
	Args      operations.Args
	// Defaulted is true when the input path came from the default table.
	Defaulted bool
}

// Dispatcher maps parsed tasks to handlers. It is immutable after New and
// safe for concurrent use.
type Dispatcher struct {
	routes map[domain.Operation]Route
}

// New builds a Dispatcher from a handler table and the configured default
// input paths, keyed by operation name. Every operation must have a handler;
// a missing or empty default is allowed and surfaces as
// domain.ErrUnresolvableInput for tasks that name no input.
func New(handlers map[domain.Operation]operations.Handler, defaults map[string]string) (*Dispatcher, error) {
	for name := range defaults {
		if !domain.Operation(name).Valid() {
			return nil, fmt.Errorf("%w: default path configured for %q", domain.ErrUnsupportedOperation, name)
		}
	}

	var missing []string
	routes := make(map[domain.Operation]Route, len(handlers))
	for _, op := range domain.Operations() {
		h, ok := handlers[op]
		if !ok || h == nil {
			missing = append(missing, op.String()+" (handler)")
			continue
		}
		kind, ok := inputKinds[op]
		if !ok {
			missing = append(missing, op.String()+" (input kind)")
			continue
		}
		routes[op] = Route{
			Handler:      h,
			DefaultInput: strings.TrimSpace(defaults[op.String()]),
			Kind:         kind,
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrIncompleteTable, strings.Join(missing, ", "))
	}

	return &Dispatcher{routes: routes}, nil
}

// Route returns the entry for op.
func (d *Dispatcher) Route(op domain.Operation) (Route, bool) {
	r, ok := d.routes[op]
	return r, ok
}

// Dispatch resolves the handler and arguments of task. It fails with
// domain.ErrSchemaViolation for an invalid task, domain.ErrUnsupportedOperation
// when no route exists, and domain.ErrUnresolvableInput when no input path can
// be determined.
func (d *Dispatcher) Dispatch(task *domain.ParsedTask) (*Resolved, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}

	route, ok := d.routes[task.Operation]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedOperation, task.Operation)
	}

	input, defaulted := task.PrimaryInput(), false
	if !task.HasExplicitInput() {
		input, defaulted = route.DefaultInput, true
	}
	if input == "" {
		if defaulted {
			return nil, fmt.Errorf("%w: no input file given and no default configured for %s",
				domain.ErrUnresolvableInput, task.Operation)
		}
		return nil, fmt.Errorf("%w: first input file is empty", domain.ErrUnresolvableInput)
	}

	if route.Kind == InputDirectory {
		input = filepath.Dir(input)
	}

	params := task.Parameters
	if task.Operation == domain.OperationCountWeekdays {
		weekday, err := operations.NormalizeWeekday(params.Weekday)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrSchemaViolation, err)
		}
		params.Weekday = weekday
	}

	return &Resolved{
		Operation: task.Operation,
		Handler:   route.Handler,
		Args: operations.Args{
			InputPath:  input,
			OutputPath: task.OutputFile,
			Parameters: params,
		},
		Defaulted: defaulted,
	}, nil
}
