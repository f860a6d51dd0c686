package agentboot

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/nwbvt/congressbot/memory"
	"go.uber.org/zap"
)

const (
	Prompt      = "-->"
	QuitCommand = "q"
)

// Run reads user lines from in until QuitCommand or end of input, printing
// each answer to out. A failed turn is reported and removed from the
// transcript. An unknown tool or a cancelled context ends the session.
func (a *Agent) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	conv := memory.NewConversation()
	logger.Info("Starting session", zap.String("session", conv.ID))

	done := make(chan struct{})
	defer close(done)
	lines, readErr := readLines(done, in)
	for {
		fmt.Fprint(out, Prompt)

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(out)
			return <-readErr
		}

		line = strings.TrimRight(line, "\r")
		if line == QuitCommand {
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		mark := conv.Len()
		answer, err := a.Ask(ctx, conv, line)
		if err != nil {
			conv.Truncate(mark)
			if errors.Is(err, ErrUnknownTool) {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("Turn failed", zap.String("session", conv.ID), zap.Error(err))
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, answer)
	}
}

// readLines scans in on its own goroutine and stops sending once done is
// closed.
func readLines(done <-chan struct{}, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}
