package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// Periods перечисляет периоды в порядке отображения на доске
var Periods = []Period{PeriodDaily, PeriodWeekly, PeriodMonthly}

var ErrInvalidPeriod = errors.New("invalid period")

func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return p, nil
}

func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

// Title - заголовок группы на доске
func (p Period) Title() string {
	switch p {
	case PeriodDaily:
		return "Daily Objective"
	case PeriodWeekly:
		return "Weekly Objective"
	case PeriodMonthly:
		return "Monthly Objective"
	}
	return string(p)
}

type Task struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Period    Period    `json:"period"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskPatch - частичное обновление задачи. nil означает "не менять".
type TaskPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func TitlePatch(title string) TaskPatch {
	return TaskPatch{Title: &title}
}

func CompletedPatch(completed bool) TaskPatch {
	return TaskPatch{Completed: &completed}
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Completed == nil
}

func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}
