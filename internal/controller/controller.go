// Package controller держит локальное представление доски задач и синхронизирует
// его с хранилищем по схеме confirm-then-apply: сначала удаленный вызов,
// потом одна локальная мутация. При ошибке локальное состояние не меняется.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/objective-board/internal/model"
	"github.com/BuzzLyutic/objective-board/internal/store"
)

var (
	ErrBlankInput  = errors.New("blank input")
	ErrUnknownTask = errors.New("unknown task")
	ErrNotEditing  = errors.New("not editing")
)

type Controller struct {
	store  store.Client
	logger *zap.Logger

	// mu защищает только локальное состояние и никогда не держится во время
	// вызова хранилища: параллельные действия завершаются в любом порядке.
	mu      sync.Mutex
	tasks   []model.Task
	loads   int // загрузок в полете
	input   string
	period  model.Period
	edit    EditState
	lastErr error
}

func New(client store.Client, logger *zap.Logger) *Controller {
	return &Controller{
		store:  client,
		logger: logger,
		tasks:  make([]model.Task, 0),
		period: model.PeriodDaily,
		edit:   Idle{},
	}
}

// Initialize загружает задачи из хранилища и заменяет локальную коллекцию.
// При ошибке коллекция остается прежней, повторов нет.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	c.loads++
	c.mu.Unlock()

	tasks, err := c.store.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loads--
	if err != nil {
		c.fail("initialize", 0, err)
		return err
	}

	if tasks == nil {
		tasks = make([]model.Task, 0)
	}
	c.tasks = tasks
	c.lastErr = nil
	c.logger.Info("Tasks loaded", zap.Int("count", len(tasks)))
	return nil
}

// Reload - ручное обновление, та же операция что и Initialize
func (c *Controller) Reload(ctx context.Context) error {
	return c.Initialize(ctx)
}

func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
}

func (c *Controller) SetPeriod(p model.Period) error {
	if !p.Valid() {
		return model.ErrInvalidPeriod
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.period = p
	return nil
}

// SubmitNewTask создает задачу. Пустой текст - ErrBlankInput без обращения к хранилищу.
// При ошибке введенный текст сохраняется, чтобы можно было повторить.
func (c *Controller) SubmitNewTask(ctx context.Context, text string, period model.Period) (model.Task, error) {
	if strings.TrimSpace(text) == "" {
		return model.Task{}, ErrBlankInput
	}

	task, err := c.store.Create(ctx, text, period)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.fail("create", 0, err)
		return model.Task{}, err
	}

	c.tasks = append(c.tasks, task)
	c.input = ""
	c.lastErr = nil
	c.logger.Info("Task created",
		zap.Int64("task_id", task.ID),
		zap.String("period", string(task.Period)),
	)
	return task, nil
}

// BeginEdit занимает слот редактирования. Предыдущее редактирование молча отбрасывается.
func (c *Controller) BeginEdit(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return ErrUnknownTask
	}
	c.edit = Editing{TaskID: id, Draft: c.tasks[idx].Title}
	return nil
}

func (c *Controller) SetDraft(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.edit.(Editing)
	if !ok {
		return ErrNotEditing
	}
	e.Draft = text
	c.edit = e
	return nil
}

func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edit = Idle{}
}

// CommitEdit сохраняет новый заголовок. При ошибке пользователь остается в режиме редактирования.
func (c *Controller) CommitEdit(ctx context.Context, id int64, draft string) (model.Task, error) {
	title := strings.TrimSpace(draft)
	if title == "" {
		return model.Task{}, ErrBlankInput
	}

	patch := model.TitlePatch(title)
	updated, err := c.store.Update(ctx, id, patch)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.fail("rename", id, err)
		return model.Task{}, err
	}

	if idx := c.indexOf(id); idx >= 0 {
		c.tasks[idx] = patch.Apply(c.tasks[idx])
		updated = c.tasks[idx]
	}
	// слот мог уже перейти к другой задаче, пока запрос был в полете
	if editID, ok := editingTask(c.edit); ok && editID == id {
		c.edit = Idle{}
	}
	c.lastErr = nil
	c.logger.Info("Task renamed", zap.Int64("task_id", id))
	return updated, nil
}

func (c *Controller) DeleteTask(ctx context.Context, id int64) error {
	err := c.store.Delete(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.fail("delete", id, err)
		return err
	}

	if idx := c.indexOf(id); idx >= 0 {
		c.tasks = append(c.tasks[:idx:idx], c.tasks[idx+1:]...)
	}
	if editID, ok := editingTask(c.edit); ok && editID == id {
		c.edit = Idle{}
	}
	c.lastErr = nil
	c.logger.Info("Task deleted", zap.Int64("task_id", id))
	return nil
}

// ToggleCompleted инвертирует флаг. Задачи нет локально - ErrUnknownTask,
// хранилище не вызывается.
func (c *Controller) ToggleCompleted(ctx context.Context, id int64) (model.Task, error) {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return model.Task{}, ErrUnknownTask
	}
	want := !c.tasks[idx].Completed
	c.mu.Unlock()

	patch := model.CompletedPatch(want)
	updated, err := c.store.Update(ctx, id, patch)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.fail("toggle", id, err)
		return model.Task{}, err
	}

	if idx := c.indexOf(id); idx >= 0 {
		c.tasks[idx] = patch.Apply(c.tasks[idx])
		updated = c.tasks[idx]
	}
	c.lastErr = nil
	c.logger.Info("Task toggled",
		zap.Int64("task_id", id),
		zap.Bool("completed", want),
	)
	return updated, nil
}

// Edit возвращает текущее состояние слота редактирования
func (c *Controller) Edit() EditState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.edit
}

// Tasks возвращает копию локальной коллекции
func (c *Controller) Tasks() []model.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// snapshot вызывается под c.mu; пустая коллекция остается не-nil
func (c *Controller) snapshot() []model.Task {
	out := make([]model.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

func (c *Controller) indexOf(id int64) int {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// fail вызывается под c.mu
func (c *Controller) fail(op string, id int64, err error) {
	c.lastErr = err
	c.logger.Error("Task action failed",
		zap.String("op", op),
		zap.Int64("task_id", id),
		zap.Error(err),
	)
}
