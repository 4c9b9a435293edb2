package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gmllt/organizeu/internal/store"
	"go.uber.org/zap"
)

type Modules struct {
	*List[Module]
}

func NewModules(s store.Store, log *zap.Logger) *Modules {
	return &Modules{newList(KeyModules, s, log, moduleRow)}
}

// Add appends a module named by the trimmed input.
func (m *Modules) Add(ctx context.Context, name string) (Row, error) {
	in := moduleInput{Name: strings.TrimSpace(name)}
	if err := gate(in); err != nil {
		return Row{}, err
	}
	return m.Append(ctx, Module{Name: in.Name})
}

type Todos struct {
	*List[Task]
}

func NewTodos(s store.Store, log *zap.Logger) *Todos {
	return &Todos{newList(KeyTodos, s, log, taskRow)}
}

// Add appends an uncompleted task.
func (t *Todos) Add(ctx context.Context, text string) (Row, error) {
	in := taskInput{Text: strings.TrimSpace(text)}
	if err := gate(in); err != nil {
		return Row{}, err
	}
	return t.Append(ctx, Task{Text: in.Text})
}

// Toggle flips the completed flag of the task at index.
func (t *Todos) Toggle(ctx context.Context, index int) (Task, error) {
	return t.Update(ctx, index, func(task *Task) {
		task.Completed = !task.Completed
	})
}

type Credits struct {
	*List[CreditEntry]
}

func NewCredits(s store.Store, log *zap.Logger) *Credits {
	return &Credits{newList(KeyCredits, s, log, creditRow)}
}

// Add parses the raw input as a base-10 integer and appends it when positive.
func (c *Credits) Add(ctx context.Context, input string) (Row, error) {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return Row{}, fmt.Errorf("%w: value must be an integer", ErrInvalidEntry)
	}
	return c.AddValue(ctx, v)
}

func (c *Credits) AddValue(ctx context.Context, value int) (Row, error) {
	if err := gate(creditInput{Value: value}); err != nil {
		return Row{}, err
	}
	return c.Append(ctx, CreditEntry{Value: value})
}

// Total sums every listed value.
func (c *Credits) Total() int {
	total := 0
	for _, e := range c.items {
		total += e.Value
	}
	return total
}

func (c *Credits) TotalLabel() string {
	return fmt.Sprintf("total credits: %d", c.Total())
}

type Assignments struct {
	*List[Assignment]
}

func NewAssignments(s store.Store, log *zap.Logger) *Assignments {
	return &Assignments{newList(KeyAssignments, s, log, assignmentRow)}
}

// Add appends an assignment; both name and due date are required.
func (a *Assignments) Add(ctx context.Context, name, dueDate string) (Row, error) {
	in := assignmentInput{Name: strings.TrimSpace(name), Date: strings.TrimSpace(dueDate)}
	if err := gate(in); err != nil {
		return Row{}, err
	}
	return a.Append(ctx, Assignment{Name: in.Name, DueDate: in.Date})
}
