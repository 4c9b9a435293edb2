package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/gmllt/organizeu/internal/calendar"
	"github.com/gmllt/organizeu/internal/dashboard"
)

var (
	accent = lipgloss.Color("205")
	muted  = lipgloss.Color("240")

	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(accent)
	sectionStyle       = lipgloss.NewStyle().Bold(true)
	boxStyle           = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1)
	popupStyle         = boxStyle.BorderForeground(accent)
	buttonStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	focusedButtonStyle = lipgloss.NewStyle().Reverse(true).Bold(true)
	selectedStyle      = lipgloss.NewStyle().Foreground(accent)
	completedStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("242"))
	weekdayStyle       = lipgloss.NewStyle().Faint(true)
	todayStyle         = lipgloss.NewStyle().Reverse(true).Bold(true)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle          = lipgloss.NewStyle().Faint(true)
)

func (m Model) View() string {
	if m.app.Popup.Visible() {
		return m.popupView()
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		boxStyle.Render(RenderCalendar(m.app.Calendar())),
		m.modulesView(),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.todosView(),
		m.creditsView(),
		m.assignmentsView(),
	)

	var b strings.Builder
	b.WriteString(titleStyle.Render("OrganizeU"))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab: next • enter: submit/toggle • x: delete • a: add module • q: quit"))
	return b.String()
}

// RenderCalendar draws the month label, the weekday header and the day grid.
func RenderCalendar(cal calendar.Month) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(cal.Label))
	b.WriteString("\n")
	for _, d := range cal.Weekdays {
		b.WriteString(weekdayStyle.Render(fmt.Sprintf("%4s", d)))
	}
	for _, week := range cal.Grid() {
		b.WriteString("\n")
		for _, c := range week {
			switch {
			case c.Filler():
				b.WriteString("    ")
			case c.Today:
				b.WriteString("  " + todayStyle.Render(fmt.Sprintf("%2d", c.Day)))
			default:
				b.WriteString(fmt.Sprintf("%4d", c.Day))
			}
		}
	}
	return b.String()
}

func (m Model) modulesView() string {
	lines := []string{
		sectionStyle.Render("Modules & courses"),
		m.button("+ add module", focusModuleAdd),
	}
	lines = append(lines, m.rowsView(m.app.Modules.Rows(), focusModules)...)
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) todosView() string {
	lines := []string{
		sectionStyle.Render("To-do list"),
		m.inputLine(m.todoInput) + " " + m.button("add", focusTodoAdd),
	}
	lines = append(lines, m.rowsView(m.app.Todos.Rows(), focusTodos)...)
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) creditsView() string {
	lines := []string{
		sectionStyle.Render("Credit checker"),
		m.inputLine(m.creditInput) + " " + m.button("add", focusCreditAdd),
	}
	lines = append(lines, m.rowsView(m.app.Credits.Rows(), focusCredits)...)
	lines = append(lines, m.app.Credits.TotalLabel())
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) assignmentsView() string {
	lines := []string{
		sectionStyle.Render("Assignment deadlines"),
		m.inputLine(m.assignName) + " " + m.inputLine(m.assignDate) + " " + m.button("add", focusAssignAdd),
	}
	lines = append(lines, m.rowsView(m.app.Assignments.Rows(), focusAssignments)...)
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) popupView() string {
	save := buttonStyle.Render("[ save ]")
	if m.popupFocus == popupSave {
		save = focusedButtonStyle.Render("[ save ]")
	}
	closeBtn := buttonStyle.Render("[ close ]")
	if m.popupFocus == popupClose {
		closeBtn = focusedButtonStyle.Render("[ close ]")
	}
	body := strings.Join([]string{
		sectionStyle.Render("Add module"),
		m.inputLine(m.moduleInput),
		save + " " + closeBtn,
	}, "\n")
	return popupStyle.Render(body) + "\n" + helpStyle.Render("enter: save • esc: close")
}

func (m Model) rowsView(rows []dashboard.Row, f focus) []string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		label := row.Label
		if row.Completed {
			label = completedStyle.Render(label)
		}
		line := fmt.Sprintf("  %s  x", label)
		if m.focus == f && m.selected[f] == row.Index {
			line = selectedStyle.Render("›") + fmt.Sprintf(" %s  x", label)
		}
		lines = append(lines, line)
	}
	return lines
}

func (m Model) button(label string, f focus) string {
	text := "[ " + label + " ]"
	if m.focus == f {
		return focusedButtonStyle.Render(text)
	}
	return buttonStyle.Render(text)
}

func (m Model) inputLine(in textinput.Model) string {
	return "> " + in.View()
}
