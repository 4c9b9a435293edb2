// Package tui is the interactive terminal dashboard.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gmllt/organizeu/internal/dashboard"
	"go.uber.org/zap"
)

// focus is the control that receives keys. Order is the Tab order.
type focus int

const (
	focusModuleAdd focus = iota
	focusModules
	focusTodoInput
	focusTodoAdd
	focusTodos
	focusCreditInput
	focusCreditAdd
	focusCredits
	focusAssignName
	focusAssignDate
	focusAssignAdd
	focusAssignments
	focusCount
)

// Controls inside the module popup.
const (
	popupInput = iota
	popupSave
	popupClose
	popupCount
)

type Model struct {
	ctx context.Context
	app *dashboard.App
	log *zap.Logger

	focus      focus
	popupFocus int
	selected   [focusCount]int

	moduleInput textinput.Model
	todoInput   textinput.Model
	creditInput textinput.Model
	assignName  textinput.Model
	assignDate  textinput.Model

	status string
}

func New(ctx context.Context, app *dashboard.App, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	m := Model{
		ctx:         ctx,
		app:         app,
		log:         log,
		moduleInput: newInput("module name", 80),
		todoInput:   newInput("new task", 120),
		creditInput: newInput("credits", 6),
		assignName:  newInput("assignment", 80),
		assignDate:  newInput("YYYY-MM-DD", 10),
	}
	m, _ = m.setFocus(focusTodoInput)
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 24
	in.Prompt = ""
	return in
}

// Run starts the dashboard on the terminal and blocks until the user quits.
func Run(ctx context.Context, app *dashboard.App, log *zap.Logger) error {
	p := tea.NewProgram(New(ctx, app, log), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.app.Popup.Visible() {
			return m.updatePopup(msg)
		}
		return m.updateKey(msg)
	}
	return m.forward(msg)
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab:
		return m.setFocus((m.focus + 1) % focusCount)
	case tea.KeyShiftTab:
		return m.setFocus((m.focus + focusCount - 1) % focusCount)
	case tea.KeyEnter:
		return m.activate()
	case tea.KeySpace:
		if !m.typing() {
			return m.activate()
		}
	case tea.KeyUp:
		m.moveSelection(-1)
		return m, nil
	case tea.KeyDown:
		m.moveSelection(1)
		return m, nil
	case tea.KeyDelete:
		if !m.typing() {
			m.removeSelected()
			return m, nil
		}
	case tea.KeyRunes:
		if m.typing() {
			break
		}
		switch string(msg.Runes) {
		case "q":
			return m, tea.Quit
		case "x":
			m.removeSelected()
		case "k":
			m.moveSelection(-1)
		case "j":
			m.moveSelection(1)
		case "a":
			if m.focus == focusModules || m.focus == focusModuleAdd {
				return m.openPopup()
			}
		}
		return m, nil
	}
	return m.forward(msg)
}

// activate is what Enter (and Space on non-text controls) does on the
// focused control. Enter in an input and pressing its add button share
// the same submit.
func (m Model) activate() (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusModuleAdd:
		return m.openPopup()
	case focusTodoInput, focusTodoAdd:
		m.submitTodo()
	case focusTodos:
		m.toggleSelected()
	case focusCreditInput, focusCreditAdd:
		m.submitCredit()
	case focusAssignName, focusAssignDate, focusAssignAdd:
		m.submitAssignment()
	}
	return m, nil
}

func (m *Model) submitTodo() {
	_, err := m.app.Todos.Add(m.ctx, m.todoInput.Value())
	if err == nil {
		m.todoInput.Reset()
	}
	m.report(err)
}

func (m *Model) submitCredit() {
	_, err := m.app.Credits.Add(m.ctx, m.creditInput.Value())
	if err == nil {
		m.creditInput.Reset()
	}
	m.report(err)
}

func (m *Model) submitAssignment() {
	_, err := m.app.Assignments.Add(m.ctx, m.assignName.Value(), m.assignDate.Value())
	if err == nil {
		m.assignName.Reset()
		m.assignDate.Reset()
	}
	m.report(err)
}

func (m *Model) toggleSelected() {
	if m.app.Todos.Len() == 0 {
		return
	}
	_, err := m.app.Todos.Toggle(m.ctx, m.selected[focusTodos])
	m.report(err)
}

func (m *Model) removeSelected() {
	index := m.selected[m.focus]
	var err error
	switch m.focus {
	case focusModules:
		if m.app.Modules.Len() == 0 {
			return
		}
		_, err = m.app.Modules.Remove(m.ctx, index)
	case focusTodos:
		if m.app.Todos.Len() == 0 {
			return
		}
		_, err = m.app.Todos.Remove(m.ctx, index)
	case focusCredits:
		if m.app.Credits.Len() == 0 {
			return
		}
		_, err = m.app.Credits.Remove(m.ctx, index)
	case focusAssignments:
		if m.app.Assignments.Len() == 0 {
			return
		}
		_, err = m.app.Assignments.Remove(m.ctx, index)
	default:
		return
	}
	m.report(err)
	m.clampSelection()
}

// report surfaces store failures. Rejected input is ignored silently.
func (m *Model) report(err error) {
	switch {
	case err == nil, errors.Is(err, dashboard.ErrInvalidEntry):
		m.status = ""
	default:
		m.log.Error("Dashboard update failed", zap.Error(err))
		m.status = "save failed: " + err.Error()
	}
}

func (m Model) openPopup() (tea.Model, tea.Cmd) {
	m.app.Popup.Open()
	m.blurAll()
	m.popupFocus = popupInput
	cmd := m.moduleInput.Focus()
	return m, cmd
}

func (m Model) closePopup() (tea.Model, tea.Cmd) {
	m.app.Popup.Close()
	m.moduleInput.Reset()
	m.moduleInput.Blur()
	return m.setFocus(m.focus)
}

func (m Model) savePopup() (tea.Model, tea.Cmd) {
	m.app.Popup.SetInput(m.moduleInput.Value())
	_, err := m.app.Popup.Submit(m.ctx)
	m.report(err)
	if m.app.Popup.Visible() {
		return m, nil
	}
	m.moduleInput.Reset()
	m.moduleInput.Blur()
	return m.setFocus(m.focus)
}

func (m Model) updatePopup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.closePopup()
	case tea.KeyTab, tea.KeyShiftTab:
		step := 1
		if msg.Type == tea.KeyShiftTab {
			step = popupCount - 1
		}
		m.popupFocus = (m.popupFocus + step) % popupCount
		if m.popupFocus == popupInput {
			cmd := m.moduleInput.Focus()
			return m, cmd
		}
		m.moduleInput.Blur()
		return m, nil
	case tea.KeyEnter:
		if m.popupFocus == popupClose {
			return m.closePopup()
		}
		return m.savePopup()
	case tea.KeySpace:
		switch m.popupFocus {
		case popupSave:
			return m.savePopup()
		case popupClose:
			return m.closePopup()
		}
	}
	if m.popupFocus != popupInput {
		return m, nil
	}
	var cmd tea.Cmd
	m.moduleInput, cmd = m.moduleInput.Update(msg)
	return m, cmd
}

func (m Model) setFocus(f focus) (Model, tea.Cmd) {
	m.blurAll()
	m.focus = f
	if in := m.inputFor(f); in != nil {
		cmd := in.Focus()
		return m, cmd
	}
	return m, nil
}

func (m *Model) blurAll() {
	for _, in := range []*textinput.Model{&m.todoInput, &m.creditInput, &m.assignName, &m.assignDate} {
		in.Blur()
	}
}

func (m *Model) inputFor(f focus) *textinput.Model {
	switch f {
	case focusTodoInput:
		return &m.todoInput
	case focusCreditInput:
		return &m.creditInput
	case focusAssignName:
		return &m.assignName
	case focusAssignDate:
		return &m.assignDate
	}
	return nil
}

func (m Model) typing() bool {
	return m.inputFor(m.focus) != nil
}

func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.app.Popup.Visible() {
		var cmd tea.Cmd
		m.moduleInput, cmd = m.moduleInput.Update(msg)
		return m, cmd
	}
	in := m.inputFor(m.focus)
	if in == nil {
		return m, nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return m, cmd
}

func (m Model) listLen(f focus) int {
	switch f {
	case focusModules:
		return m.app.Modules.Len()
	case focusTodos:
		return m.app.Todos.Len()
	case focusCredits:
		return m.app.Credits.Len()
	case focusAssignments:
		return m.app.Assignments.Len()
	}
	return 0
}

func (m *Model) moveSelection(delta int) {
	n := m.listLen(m.focus)
	if n == 0 {
		return
	}
	m.selected[m.focus] = (m.selected[m.focus] + delta + n) % n
}

func (m *Model) clampSelection() {
	for _, f := range []focus{focusModules, focusTodos, focusCredits, focusAssignments} {
		n := m.listLen(f)
		switch {
		case n == 0:
			m.selected[f] = 0
		case m.selected[f] >= n:
			m.selected[f] = n - 1
		}
	}
}
