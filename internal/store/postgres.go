package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/objective-board/internal/model"
)

const taskColumns = "id, title, completed, period, created_at"

type PostgresStore struct { // Клиент таблицы tasks поверх Postgres (Supabase тоже Postgres)
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool: pool,
	}
}

// Migrate создает таблицу tasks, если ее нет
func (s *PostgresStore) Migrate(ctx context.Context) error {
	stmts, err := schema("postgres")
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return wrap("migrate", 0, err)
		}
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, title string, period model.Period) (model.Task, error) {
	title, err := validateCreate(title, period)
	if err != nil {
		return model.Task{}, err
	}

	t, err := scanTask(s.pool.QueryRow(ctx, `
		INSERT INTO tasks (title, completed, period)
		VALUES ($1, false, $2)
		RETURNING `+taskColumns,
		title, string(period)))
	return t, wrap("create", 0, s.mapError(err))
}

func (s *PostgresStore) List(ctx context.Context) ([]model.Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, wrap("list", 0, err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, wrap("list", 0, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list", 0, err)
	}
	return tasks, nil
}

func (s *PostgresStore) Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, error) {
	patch, err := validatePatch(patch)
	if err != nil {
		return model.Task{}, err
	}

	t, err := scanTask(s.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = COALESCE($2::text, title), completed = COALESCE($3::boolean, completed)
		WHERE id = $1
		RETURNING `+taskColumns,
		id, patch.Title, patch.Completed))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, wrap("update", id, ErrNotFound)
	}
	return t, wrap("update", id, s.mapError(err))
}

// Delete идемпотентен: отсутствующая строка не ошибка
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	return wrap("delete", id, err)
}

func (s *PostgresStore) mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23514" { // check_violation
			return errors.Join(ErrValidation, err)
		}
	}
	return err
}

func scanTask(row pgx.Row) (model.Task, error) {
	var (
		t      model.Task
		period string
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Completed, &period, &t.CreatedAt); err != nil {
		return model.Task{}, err
	}
	t.Period = model.Period(period)
	return t, nil
}
