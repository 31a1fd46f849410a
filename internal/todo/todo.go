// Package todo is the plant-care task list. It lives only in the app
// process and starts from the same five tasks every run.
package todo

import (
	"strings"
	"sync"

	id "bloomit/pkg/domain"
	dErrors "bloomit/pkg/domain-errors"
)

type Task struct {
	ID        id.TaskID
	Text      string
	Completed bool
}

var defaultTasks = []Task{
	{Text: "Water the plants"},
	{Text: "Fertilize the garden", Completed: true},
	{Text: "Prune the roses"},
	{Text: "Check for pests"},
	{Text: "Repot the monstera", Completed: true},
}

// List keeps tasks in insertion order.
type List struct {
	mu    sync.RWMutex
	tasks []Task
}

// New returns a list seeded with the default tasks.
func New() *List {
	l := &List{tasks: make([]Task, 0, len(defaultTasks))}
	for _, t := range defaultTasks {
		t.ID = id.NewTaskID()
		l.tasks = append(l.tasks, t)
	}
	return l
}

// Add appends an incomplete task. Blank text is rejected; the text is
// stored trimmed.
func (l *List) Add(text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, dErrors.New(dErrors.CodeInvalidInput, "task text is required")
	}
	task := Task{ID: id.NewTaskID(), Text: text}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.tasks = append(l.tasks, task)
	return task, nil
}

func (l *List) Toggle(taskID id.TaskID) (Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(taskID)
	if i < 0 {
		return Task{}, dErrors.New(dErrors.CodeNotFound, "task not found")
	}
	l.tasks[i].Completed = !l.tasks[i].Completed
	return l.tasks[i], nil
}

func (l *List) Delete(taskID id.TaskID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(taskID)
	if i < 0 {
		return dErrors.New(dErrors.CodeNotFound, "task not found")
	}
	l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
	return nil
}

// List returns a copy of the tasks.
func (l *List) List() []Task {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Remaining counts incomplete tasks.
func (l *List) Remaining() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, t := range l.tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

func (l *List) indexLocked(taskID id.TaskID) int {
	for i, t := range l.tasks {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}
