package dashboard

import (
	"encoding/json"
	"fmt"
)

// Store keys, one per collection.
const (
	KeyModules     = "modules"
	KeyTodos       = "todos"
	KeyCredits     = "credits"
	KeyAssignments = "assignments"
)

// Module is persisted as a bare JSON string.
type Module struct {
	Name string
}

func (m Module) MarshalJSON() ([]byte, error) { return encode(m.Name) }

func (m *Module) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &m.Name)
}

type Task struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// CreditEntry is persisted as a bare JSON integer.
type CreditEntry struct {
	Value int
}

func (c CreditEntry) MarshalJSON() ([]byte, error) { return encode(c.Value) }

func (c *CreditEntry) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &c.Value)
}

type Assignment struct {
	Name    string `json:"name"`
	DueDate string `json:"date"`
}

// Row is the rendered projection of one entry.
type Row struct {
	Index     int    `json:"index"`
	Label     string `json:"label"`
	Completed bool   `json:"completed,omitempty"`
}

func moduleRow(m Module) Row { return Row{Label: m.Name} }

func taskRow(t Task) Row { return Row{Label: t.Text, Completed: t.Completed} }

func creditRow(c CreditEntry) Row { return Row{Label: fmt.Sprintf("%d credits", c.Value)} }

func assignmentRow(a Assignment) Row { return Row{Label: fmt.Sprintf("%s - %s", a.Name, a.DueDate)} }
