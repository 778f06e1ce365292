package controller

// EditState - слот редактирования: Idle либо Editing. Состояния
// "id есть, черновика нет" не существует.
type EditState interface {
	isEditState()
}

type Idle struct{}

type Editing struct {
	TaskID int64
	Draft  string
}

func (Idle) isEditState()    {}
func (Editing) isEditState() {}

// editingTask возвращает id редактируемой задачи, если слот занят
func editingTask(s EditState) (int64, bool) {
	e, ok := s.(Editing)
	if !ok {
		return 0, false
	}
	return e.TaskID, true
}
