// Package ux provides output formatting for the non-interactive commands.
package ux

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/attendly/attendly/internal/directory"
	"github.com/attendly/attendly/internal/gateway"
)

// Formatter defines the interface for output formatters
type Formatter interface {
	// Format writes the given data to the output writer
	Format(data any) error
}

// FormatterOptions contains configuration for formatters
type FormatterOptions struct {
	// Writer is where output is written (defaults to os.Stdout)
	Writer io.Writer
	// Compact enables compact output (no indentation for JSON/YAML)
	Compact bool
}

// NewFormatter creates a formatter based on the format string
func NewFormatter(format string, opts *FormatterOptions) (Formatter, error) {
	if opts == nil {
		opts = &FormatterOptions{Writer: os.Stdout}
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch format {
	case "json":
		return &JSONFormatter{opts: opts}, nil
	case "yaml":
		return &YAMLFormatter{opts: opts}, nil
	case "text", "":
		return &TextFormatter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: text, json, yaml)", format)
	}
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	opts *FormatterOptions
}

// Format writes data as JSON
func (f *JSONFormatter) Format(data any) error {
	encoder := json.NewEncoder(f.opts.Writer)
	if !f.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	opts *FormatterOptions
}

// Format writes data as YAML
func (f *YAMLFormatter) Format(data any) error {
	encoder := yaml.NewEncoder(f.opts.Writer)
	if !f.opts.Compact {
		encoder.SetIndent(2)
	}
	defer encoder.Close()
	return encoder.Encode(data)
}

// TextFormatter formats output as human-readable text. The directory types
// render as aligned tables; everything else needs a String method or must be
// a primitive.
type TextFormatter struct {
	opts *FormatterOptions
}

// Format writes data as formatted text
func (f *TextFormatter) Format(data any) error {
	switch v := data.(type) {
	case *directory.EmployeePage:
		return f.writeEmployees(v)
	case []directory.Subject:
		return f.writeSubjects(v)
	case []directory.AttendanceRecord:
		return f.writeAttendance(v)
	case *directory.Employee:
		return f.writeEmployee(v)
	case []gateway.User:
		return f.writeUsers(v)
	case string:
		_, err := fmt.Fprintln(f.opts.Writer, v)
		return err
	case fmt.Stringer:
		_, err := fmt.Fprintln(f.opts.Writer, v.String())
		return err
	default:
		return fmt.Errorf("text formatter cannot render %T; use --format json or yaml", data)
	}
}

func (f *TextFormatter) writeEmployees(page *directory.EmployeePage) error {
	w := f.opts.Writer

	fmt.Fprintf(w, "%-26s %-5s %-8s %-10s %s\n", "NAME", "AGE", "CLASS", "STATUS", "ID")
	for _, e := range page.Employees {
		status := "active"
		if !e.IsActive {
			status = "inactive"
		}
		fmt.Fprintf(w, "%-26s %-5d %-8s %-10s %s\n", e.Name, e.Age, e.Class, status, e.ID)
	}

	_, err := fmt.Fprintf(w, "\n%d of %d employees\n", len(page.Employees), page.TotalCount)
	return err
}

func (f *TextFormatter) writeSubjects(subjects []directory.Subject) error {
	w := f.opts.Writer

	fmt.Fprintf(w, "%-26s %-10s %s\n", "NAME", "ASSIGNED", "ID")
	for _, s := range subjects {
		fmt.Fprintf(w, "%-26s %-10d %s\n", s.Name, len(s.Employees), s.ID)
	}
	return nil
}

func (f *TextFormatter) writeAttendance(records []directory.AttendanceRecord) error {
	w := f.opts.Writer

	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No attendance records.")
		return err
	}

	fmt.Fprintf(w, "%-12s %-10s %s\n", "DATE", "STATUS", "EMPLOYEE")
	for _, r := range records {
		name := ""
		if r.Employee != nil {
			name = r.Employee.Name
		}
		fmt.Fprintf(w, "%-12s %-10s %s\n", r.Date, r.Status, name)
	}
	return nil
}

func (f *TextFormatter) writeUsers(users []gateway.User) error {
	w := f.opts.Writer

	fmt.Fprintf(w, "%-32s %-10s %s\n", "EMAIL", "ROLE", "ID")
	for _, u := range users {
		fmt.Fprintf(w, "%-32s %-10s %s\n", u.Email, strings.ToLower(u.Role), u.ID)
	}
	return nil
}

func (f *TextFormatter) writeEmployee(e *directory.Employee) error {
	w := f.opts.Writer

	fmt.Fprintf(w, "Name:   %s\n", e.Name)
	fmt.Fprintf(w, "Age:    %d\n", e.Age)
	fmt.Fprintf(w, "Class:  %s\n", e.Class)
	fmt.Fprintf(w, "Active: %t\n", e.IsActive)

	if len(e.Subjects) > 0 {
		names := make([]string, 0, len(e.Subjects))
		for _, s := range e.Subjects {
			names = append(names, s.Name)
		}
		fmt.Fprintf(w, "Subjects: %s\n", strings.Join(names, ", "))
	}
	if e.User != nil {
		fmt.Fprintf(w, "Account: %s (%s)\n", e.User.Email, strings.ToLower(e.User.Role))
	}
	return nil
}
