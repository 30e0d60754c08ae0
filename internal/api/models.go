package api

import (
	"time"

	"github.com/phrazzld/taskgate/internal/task"
)

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	TaskDescription string `json:"task_description" validate:"required,max=8192"`
}

// CreateTaskResponse is returned with 202 Accepted.
type CreateTaskResponse struct {
	TaskID string `json:"task_id"`
}

// TaskResponse is the public view of a task record.
type TaskResponse struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	Operation  string    `json:"operation"`
	OutputPath string    `json:"output_path"`
	Error      *string   `json:"error"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReadFileResponse is returned by GET /read.
type ReadFileResponse struct {
	Content string `json:"content"`
}

// recordToResponse converts a task.Record to a TaskResponse
func recordToResponse(rec task.Record) TaskResponse {
	resp := TaskResponse{
		ID:         rec.ID.String(),
		Status:     string(rec.Status),
		Operation:  rec.Operation.String(),
		OutputPath: rec.OutputPath,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
	if rec.Error != "" {
		msg := rec.Error
		resp.Error = &msg
	}
	return resp
}
