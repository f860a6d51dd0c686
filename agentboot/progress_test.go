package agentboot

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
)

func TestNoOpProgressReporter(t *testing.T) {
	reporter := &NoOpProgressReporter{}

	assert.NotPanics(t, func() {
		reporter.ToolStarted("list_bills", nil)
		reporter.ToolFinished("list_bills", errors.New("boom"))
	})
}

func TestWriterProgressReporterStarted(t *testing.T) {
	var out bytes.Buffer
	reporter := &WriterProgressReporter{Out: &out}

	reporter.ToolStarted("get_bill", api.ToolCallFunctionArguments{"congress": 119, "billType": "hr"})

	assert.Equal(t, "-- calling get_bill(billType=\"hr\", congress=119)\n", out.String())
}

func TestWriterProgressReporterFinished(t *testing.T) {
	var out bytes.Buffer
	reporter := &WriterProgressReporter{Out: &out}

	reporter.ToolFinished("get_bill", nil)
	assert.Empty(t, out.String())

	reporter.ToolFinished("get_bill", errors.New("not found"))
	assert.Equal(t, "-- get_bill failed: not found\n", out.String())
}
