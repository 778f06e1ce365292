package controller

import "github.com/BuzzLyutic/objective-board/internal/model"

// Group - задачи одного периода
type Group struct {
	Period    model.Period
	Title     string
	Tasks     []model.Task
	Completed int
}

// View - снимок доски для слоя отрисовки. Счетчики и группы вычисляются
// при каждом вызове и нигде не хранятся.
type View struct {
	Loading   bool
	Input     string
	Period    model.Period
	Edit      EditState
	Tasks     []model.Task
	Total     int
	Completed int
	Groups    []Group
	Err       error
}

func (c *Controller) View() View {
	c.mu.Lock()
	v := View{
		Loading: c.loads > 0,
		Input:   c.input,
		Period:  c.period,
		Edit:    c.edit,
		Tasks:   c.snapshot(),
		Err:     c.lastErr,
	}
	c.mu.Unlock()

	v.Total = len(v.Tasks)
	v.Completed = CountCompleted(v.Tasks)
	v.Groups = Partition(v.Tasks)
	return v
}

// Partition раскладывает задачи по периодам в порядке model.Periods,
// сохраняя порядок задач внутри группы
func Partition(tasks []model.Task) []Group {
	groups := make([]Group, len(model.Periods))
	index := make(map[model.Period]int, len(model.Periods))
	for i, p := range model.Periods {
		groups[i] = Group{Period: p, Title: p.Title(), Tasks: make([]model.Task, 0)}
		index[p] = i
	}

	for _, t := range tasks {
		i, ok := index[t.Period]
		if !ok {
			continue
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
		if t.Completed {
			groups[i].Completed++
		}
	}
	return groups
}

func CountCompleted(tasks []model.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}
