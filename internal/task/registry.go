package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskgate/internal/domain"
)

// maxIDAttempts bounds id regeneration after a collision.
const maxIDAttempts = 3

// MemoryRegistry is a Registry held in process memory. All reads and
// read-modify-write sequences run under its lock.
type MemoryRegistry struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Record
	newID   func() (uuid.UUID, error)
	now     func() time.Time
}

// RegistryOption configures a MemoryRegistry.
type RegistryOption func(*MemoryRegistry)

// WithIDGenerator replaces the random UUID source.
func WithIDGenerator(gen func() (uuid.UUID, error)) RegistryOption {
	return func(r *MemoryRegistry) {
		r.newID = gen
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *MemoryRegistry) {
		r.now = now
	}
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry(opts ...RegistryOption) *MemoryRegistry {
	r := &MemoryRegistry{
		records: make(map[uuid.UUID]*Record),
		newID:   uuid.NewRandom,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create implements Registry.
func (r *MemoryRegistry) Create(ctx context.Context, operation domain.Operation, outputPath string) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := r.newID()
		if err != nil {
			return Record{}, fmt.Errorf("failed to generate task id: %w", err)
		}
		if _, exists := r.records[id]; exists || id == uuid.Nil {
			continue
		}

		now := r.now().UTC()
		rec := &Record{
			ID:         id,
			Operation:  operation,
			Status:     TaskStatusPending,
			OutputPath: outputPath,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		r.records[id] = rec
		return *rec, nil
	}

	return Record{}, fmt.Errorf("%w after %d attempts", ErrDuplicateTask, maxIDAttempts)
}

// Update implements Registry.
func (r *MemoryRegistry) Update(ctx context.Context, id uuid.UUID, status TaskStatus, errorMsg string) error {
	if !status.Terminal() {
		return fmt.Errorf("%w: %q is not a terminal status", ErrInvalidStatus, status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if rec.Status.Terminal() {
		return fmt.Errorf("%w: %s is %s", ErrTaskTerminal, id, rec.Status)
	}

	rec.Status = status
	rec.Error = ""
	if status == TaskStatusError {
		rec.Error = errorMsg
	}
	rec.UpdatedAt = r.now().UTC()
	return nil
}

// Get implements Registry.
func (r *MemoryRegistry) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return *rec, nil
}

// Discard implements Registry.
func (r *MemoryRegistry) Discard(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if rec.Status != TaskStatusPending {
		return fmt.Errorf("%w: %s", ErrTaskNotPending, id)
	}
	delete(r.records, id)
	return nil
}

// Len returns the number of stored records.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
