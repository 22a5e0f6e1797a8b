// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todo/internal/service"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"
)

// FormatTask formats a task line.
// Format: "[x] {TITLE} [{ID}]\n"; the box is empty for open tasks.
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%s %s [%s]\n", checkbox(task.Completed), normalizeTitle(task.Title), task.ID)
}

// FormatTaskIndented formats a task line inside a list section.
func FormatTaskIndented(w io.Writer, task service.Task) {
	fmt.Fprint(w, "    ")
	FormatTask(w, task)
}

// FormatTaskDetail prints every field of a task, one per line.
func FormatTaskDetail(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "id:          %s\n", task.ID)
	fmt.Fprintf(w, "title:       %s\n", normalizeTitle(task.Title))
	if task.Description != "" {
		fmt.Fprintf(w, "description: %s\n", task.Description)
	}
	fmt.Fprintf(w, "completed:   %s\n", yesNo(task.Completed))
	fmt.Fprintf(w, "list:        %s\n", task.ListID)
}

// FormatListHeader formats a list section header.
func FormatListHeader(w io.Writer, list service.List) {
	fmt.Fprintln(w, ListSeparator)
	FormatListName(w, list)
	if d := strings.TrimSpace(list.Description); d != "" {
		fmt.Fprintln(w, d)
	}
	fmt.Fprintln(w, ListSeparator)
}

// FormatListName formats a list name for the lists command.
func FormatListName(w io.Writer, list service.List) {
	fmt.Fprintf(w, "%s [%s]\n", normalizeListTitle(list.Name), list.ID)
}

// FormatUser formats the identity line.
func FormatUser(w io.Writer, user service.User) {
	if user.Email == "" {
		fmt.Fprintln(w, user.Username)
		return
	}
	fmt.Fprintf(w, "%s <%s>\n", user.Username, user.Email)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// normalizeListTitle normalizes a list name for display.
// Empty or whitespace-only names become "(untitled)".
func normalizeListTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
