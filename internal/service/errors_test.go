package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/taskgate/internal/domain"
	"github.com/phrazzld/taskgate/internal/task"
)

func TestNewTaskServiceError(t *testing.T) {
	assert.Nil(t, NewTaskServiceError("op", "msg", nil))

	known := fmt.Errorf("%w: missing output_file", domain.ErrSchemaViolation)
	assert.Same(t, known, NewTaskServiceError("submit_task", "failed", known))
	assert.ErrorIs(t, NewTaskServiceError("get_task", "failed", task.ErrTaskNotFound), task.ErrTaskNotFound)

	base := errors.New("disk on fire")
	err := NewTaskServiceError("submit_task", "failed to queue task", base)
	var svcErr *TaskServiceError
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "submit_task", svcErr.Operation)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "task service submit_task failed: failed to queue task: disk on fire", err.Error())

	assert.Equal(t, "task service x failed: y", (&TaskServiceError{Operation: "x", Message: "y"}).Error())
}
