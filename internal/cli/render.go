package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"tasktree/internal/models"
	"tasktree/internal/taskview"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	categoryStyles = map[string]lipgloss.Style{
		"Work":      lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		"Personal":  lipgloss.NewStyle().Foreground(lipgloss.Color("135")),
		"Shopping":  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"Health":    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"Finance":   lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		"Education": lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
		"Home":      lipgloss.NewStyle().Foreground(lipgloss.Color("173")),
		"Other":     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}
)

// disableColor strips all styling from rendered output.
func disableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	doneStyle = lipgloss.NewStyle()
	overdueStyle = lipgloss.NewStyle()
	dueStyle = lipgloss.NewStyle()
	categoryStyles = map[string]lipgloss.Style{}
}

// renderTaskTable writes tasks as a formatted table.
func renderTaskTable(w io.Writer, tasks []models.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}

	const pad = 2
	titleW, catW, statusW := 5, 8, 11
	for _, t := range tasks {
		titleW = max(titleW, min(len(t.Title)+pad, 50))
		catW = max(catW, len(t.Category)+pad)
		statusW = max(statusW, len(models.StatusLabel(t.Status))+pad)
	}

	header := fmt.Sprintf("%-38s %-*s %-*s %-*s %s",
		"ID", titleW, "TITLE", catW, "CATEGORY", statusW, "STATUS", "DUE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		fmt.Fprintln(w, renderTaskRow(t, titleW, catW, statusW, now))
	}
}

func renderTaskRow(t models.Task, titleW, catW, statusW int, now time.Time) string {
	title := t.Title
	const maxTitle = 48
	if len(title) > maxTitle {
		title = title[:maxTitle-3] + "..."
	}

	category := fmt.Sprintf("%-*s", catW, t.Category)
	if style, ok := categoryStyles[t.Category]; ok {
		category = style.Render(category)
	}

	status := fmt.Sprintf("%-*s", statusW, models.StatusLabel(t.Status))
	if t.IsCompleted {
		status = doneStyle.Render(status)
	}

	due := renderDue(t.DueDate, now)

	return fmt.Sprintf("%-38s %-*s %s %s %s", t.ID, titleW, title, category, status, due)
}

func renderDue(dueDate *string, now time.Time) string {
	label := taskview.RelativeDateLabel(dueDate, now)
	if label == "" {
		return dimStyle.Render("--")
	}
	if taskview.IsOverdue(dueDate, now) {
		return overdueStyle.Render(label)
	}
	return dueStyle.Render(label)
}

// renderTaskDetail writes one task in long form.
func renderTaskDetail(w io.Writer, t models.Task, now time.Time) {
	fmt.Fprintln(w, headerStyle.Render(t.Title))
	fmt.Fprintf(w, "ID:        %s\n", t.ID)
	if style, ok := categoryStyles[t.Category]; ok {
		fmt.Fprintf(w, "Category:  %s\n", style.Render(t.Category))
	} else {
		fmt.Fprintf(w, "Category:  %s\n", t.Category)
	}
	fmt.Fprintf(w, "Status:    %s (%d%%)\n", models.StatusLabel(t.Status), t.Status)
	if t.DueDate != nil {
		fmt.Fprintf(w, "Due:       %s (%s)\n", *t.DueDate, taskview.RelativeDateLabel(t.DueDate, now))
	}
	if t.ParentTaskID != nil {
		fmt.Fprintf(w, "Parent:    %s\n", *t.ParentTaskID)
	}
	if t.Description != "" {
		fmt.Fprintf(w, "\n%s\n", t.Description)
	}
	fmt.Fprintf(w, "\nCreated: %s   Updated: %s\n",
		t.CreatedAt.Local().Format("2006-01-02 15:04"),
		t.UpdatedAt.Local().Format("2006-01-02 15:04"))
}
