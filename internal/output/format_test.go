package output_test

import (
	"bytes"
	"testing"

	"todo/internal/output"
	"todo/internal/service"
	"todo/internal/testutil"
)

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name string
		task service.Task
		want string
	}{
		{name: "open", task: service.Task{ID: "t1", Title: "Buy milk"}, want: "[ ] Buy milk [t1]\n"},
		{name: "completed", task: service.Task{ID: "t2", Title: "Pay rent", Completed: true}, want: "[x] Pay rent [t2]\n"},
		{name: "untitled", task: service.Task{ID: "t3", Title: "   "}, want: "[ ] (untitled) [t3]\n"},
		{name: "newlines", task: service.Task{ID: "t4", Title: "line1\nline2"}, want: "[ ] line1 line2 [t4]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			output.FormatTask(&buf, tt.task)
			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestFormatListSection(t *testing.T) {
	var buf bytes.Buffer
	list := service.List{ID: "l1", Name: "Groceries", Description: "weekly shop"}
	output.FormatListHeader(&buf, list)
	output.FormatTaskIndented(&buf, service.Task{ID: "t1", Title: "Milk"})
	output.FormatTaskIndented(&buf, service.Task{ID: "t2", Title: "Eggs", Completed: true})

	testutil.GoldenString(t, "list_section", buf.String())
}

func TestFormatTaskDetail(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTaskDetail(&buf, service.Task{ID: "t1", Title: "Milk", Description: "oat", ListID: "l1"})

	testutil.GoldenString(t, "task_detail", buf.String())
}

func TestFormatUser(t *testing.T) {
	var buf bytes.Buffer
	output.FormatUser(&buf, service.User{Username: "alice", Email: "alice@example.com"})
	output.FormatUser(&buf, service.User{Username: "bob"})

	want := "alice <alice@example.com>\nbob\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}
