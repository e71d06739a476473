package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/geodist/internal/models"
)

// maxAttempts is the number of failed lookups after which a task is no longer retried.
const maxAttempts = 5

// FetchPendingTasks returns up to limit open tasks that have an address but no
// distance yet and have failed fewer than maxAttempts times, oldest first.
func (r *Repository) FetchPendingTasks(ctx context.Context, limit int) ([]models.Task, error) {
	var tasks []models.Task
	query := `
		SELECT task_id, address
		FROM public.tasks
		WHERE
			distance IS NULL
			AND is_closed = false
			AND geocoding_attempts < $1
			AND address IS NOT NULL AND address <> ''
		ORDER BY created_at ASC
		LIMIT $2;
	`

	rows, err := r.db.Query(ctx, query, maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var task models.Task
		if errScan := rows.Scan(&task.ID, &task.Address); errScan != nil {
			return nil, fmt.Errorf("failed to scan pending task: %w", errScan)
		}
		r.log.DebugContext(ctx, "Pending task received", "ID", task.ID, "Address", task.Address)
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return tasks, nil
}

// SaveLocation stores the coordinates and distance of a task and clears its last error.
func (r *Repository) SaveLocation(ctx context.Context, loc models.Location) error {
	query := `
		UPDATE tasks
		SET
			latitude = $1,
			longitude = $2,
			distance = $3,
			distance_unit = $4,
			geocoding_error = NULL
		WHERE
			task_id = $5;
	`

	_, err := r.db.Exec(ctx, query,
		loc.Point.Latitude, loc.Point.Longitude, loc.Distance, loc.Unit.String(), loc.TaskID)
	if err != nil {
		return fmt.Errorf("failed to save task location: %w", err)
	}

	return nil
}

// IncrementFailureCount bumps the attempt counter of a task and records errMsg.
func (r *Repository) IncrementFailureCount(ctx context.Context, taskID int, errMsg string) error {
	query := `
		UPDATE tasks
		SET
			geocoding_attempts = geocoding_attempts + 1,
			geocoding_error = $1
		WHERE task_id = $2;
	`

	_, err := r.db.Exec(ctx, query, errMsg, taskID)
	if err != nil {
		return fmt.Errorf("failed to update geocoding error and number of attempts: %w", err)
	}

	return nil
}
