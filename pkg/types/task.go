package types

import (
	"errors"
	"fmt"
)

// Task selects which generation pipeline variant runs. It is fixed for the
// whole run and determines prompt content, document structure and output
// file naming.
type Task string

const (
	TaskDocumentation     Task = "documentation"
	TaskDeepDocumentation Task = "deep_documentation"
	TaskAnalysis          Task = "analysis"
)

// ErrUnknownTask is returned when parsing an unrecognized task name.
var ErrUnknownTask = errors.New("unknown task")

// ParseTask maps a user-supplied task name to a Task. It accepts the
// canonical names plus the short aliases used by the CLI and web form.
func ParseTask(s string) (Task, error) {
	switch s {
	case "documentation", "doc", "docs":
		return TaskDocumentation, nil
	case "deep_documentation", "deep", "deep-doc":
		return TaskDeepDocumentation, nil
	case "analysis", "analyze", "analyse":
		return TaskAnalysis, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTask, s)
	}
}

// Validate checks that the task is one of the three known variants.
func (t Task) Validate() error {
	switch t {
	case TaskDocumentation, TaskDeepDocumentation, TaskAnalysis:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTask, string(t))
	}
}

// DocSuffix returns the per-file output suffix for the task, replacing the
// source file's extension (e.g. "server.py" -> "server_doc.md").
func (t Task) DocSuffix() string {
	switch t {
	case TaskDeepDocumentation:
		return "_deep_doc.md"
	case TaskAnalysis:
		return "_analysis.md"
	default:
		return "_doc.md"
	}
}

// IndexFileName returns the name of the project-level index document
// written at the output root.
func (t Task) IndexFileName() string {
	if t == TaskAnalysis {
		return "PROJECT_ANALYSIS_SUMMARY.md"
	}
	return "TABLE_OF_CONTENTS.md"
}

// Title returns the human-readable heading used for per-file documents.
func (t Task) Title() string {
	switch t {
	case TaskDeepDocumentation:
		return "Deep Documentation"
	case TaskAnalysis:
		return "Code Analysis Report"
	default:
		return "Documentation"
	}
}

func (t Task) String() string {
	return string(t)
}
