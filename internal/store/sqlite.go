package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/BuzzLyutic/objective-board/internal/model"
)

// SQLiteStore - та же таблица tasks во встроенной базе, для локальной работы и тестов
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite открывает базу по dsn (":memory:" или путь к файлу) и применяет схему
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// одно соединение: :memory: живет внутри соединения, запись в sqlite все равно последовательная
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	stmts, err := schema("sqlite")
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return wrap("migrate", 0, err)
		}
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, title string, period model.Period) (model.Task, error) {
	title, err := validateCreate(title, period)
	if err != nil {
		return model.Task{}, err
	}

	t, err := scanSQLiteTask(s.db.QueryRowContext(ctx, `
		INSERT INTO tasks (title, completed, period)
		VALUES (?, 0, ?)
		RETURNING `+taskColumns,
		title, string(period)))
	return t, wrap("create", 0, err)
}

func (s *SQLiteStore) List(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
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
		t, err := scanSQLiteTask(rows)
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

func (s *SQLiteStore) Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, error) {
	patch, err := validatePatch(patch)
	if err != nil {
		return model.Task{}, err
	}

	t, err := scanSQLiteTask(s.db.QueryRowContext(ctx, `
		UPDATE tasks
		SET title = COALESCE(?, title), completed = COALESCE(?, completed)
		WHERE id = ?
		RETURNING `+taskColumns,
		patch.Title, patch.Completed, id))

	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, wrap("update", id, ErrNotFound)
	}
	return t, wrap("update", id, err)
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	return wrap("delete", id, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteTask(row rowScanner) (model.Task, error) {
	var (
		t         model.Task
		period    string
		createdAt string
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Completed, &period, &createdAt); err != nil {
		return model.Task{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.Task{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	t.Period = model.Period(period)
	t.CreatedAt = ts
	return t, nil
}
