package repository

import (
	"context"
	"database/sql"

	"github.com/vibast-solutions/ms-go-tasks/app/entity"
)

type TaskRepository struct {
	db DB
}

func NewTaskRepository(db DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *entity.Task) error {
	query := `
		INSERT INTO tasks (task, is_completed, user_id)
		VALUES (?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query, task.Task, task.IsCompleted, task.UserID)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	task.ID = uint64(id)
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, id uint64) (*entity.Task, error) {
	query := `
		SELECT id, task, is_completed, user_id
		FROM tasks WHERE user_id = ? AND id = ?
	`
	task := &entity.Task{}
	err := r.db.QueryRowContext(ctx, query, userID, id).Scan(
		&task.ID,
		&task.Task,
		&task.IsCompleted,
		&task.UserID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) ListByUserID(ctx context.Context, userID uint64) ([]*entity.Task, error) {
	query := `
		SELECT id, task, is_completed, user_id
		FROM tasks WHERE user_id = ? ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*entity.Task
	for rows.Next() {
		task := &entity.Task{}
		if err := rows.Scan(&task.ID, &task.Task, &task.IsCompleted, &task.UserID); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, task *entity.Task) error {
	query := `
		UPDATE tasks SET task = ?, is_completed = ? WHERE user_id = ? AND id = ?
	`
	_, err := r.db.ExecContext(ctx, query, task.Task, task.IsCompleted, task.UserID, task.ID)
	return err
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id uint64) (int64, error) {
	query := `DELETE FROM tasks WHERE user_id = ? AND id = ?`
	result, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
