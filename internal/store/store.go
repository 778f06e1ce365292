// Package store - клиенты таблицы tasks. Каждый метод делает ровно один
// запрос к бэкенду: без кэша, без повторов, без батчинга.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BuzzLyutic/objective-board/internal/model"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)

// Client определяет интерфейс для работы с таблицей задач
type Client interface {
	Create(ctx context.Context, title string, period model.Period) (model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, error)
	Delete(ctx context.Context, id int64) error
}

// StoreError - любая ошибка удаленного вызова (транспорт, бэкенд, not found)
type StoreError struct {
	Op  string
	ID  int64
	Err error
}

func (e *StoreError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("store %s task %d: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func wrap(op string, id int64, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, ID: id, Err: err}
}

func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// Локальная валидация до обращения к бэкенду

func validateCreate(title string, period model.Period) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is blank", ErrValidation)
	}
	if !period.Valid() {
		return "", fmt.Errorf("%w: unknown period %q", ErrValidation, period)
	}
	return title, nil
}

func validatePatch(patch model.TaskPatch) (model.TaskPatch, error) {
	if patch.Empty() {
		return patch, fmt.Errorf("%w: empty patch", ErrValidation)
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return patch, fmt.Errorf("%w: title is blank", ErrValidation)
		}
		patch.Title = &title
	}
	return patch, nil
}
