package agentboot

import (
	"fmt"
	"io"

	"github.com/ollama/ollama/api"
)

// ProgressReporter is an interface for reporting agent execution progress
type ProgressReporter interface {
	ToolStarted(name string, args api.ToolCallFunctionArguments)
	ToolFinished(name string, err error)
}

// NoOpProgressReporter implements ProgressReporter with no-op operations
type NoOpProgressReporter struct{}

func (r *NoOpProgressReporter) ToolStarted(name string, args api.ToolCallFunctionArguments) {}

func (r *NoOpProgressReporter) ToolFinished(name string, err error) {}

// WriterProgressReporter prints tool activity for verbose sessions.
type WriterProgressReporter struct {
	Out io.Writer
}

func (r *WriterProgressReporter) ToolStarted(name string, args api.ToolCallFunctionArguments) {
	fmt.Fprintf(r.Out, "-- calling %s\n", formatCall(name, args))
}

func (r *WriterProgressReporter) ToolFinished(name string, err error) {
	if err != nil {
		fmt.Fprintf(r.Out, "-- %s failed: %v\n", name, err)
	}
}
