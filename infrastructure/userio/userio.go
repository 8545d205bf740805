// Package userio implements the user oracle: obtaining one human
// reply per prompt in interactive runs, and deterministic stand-ins
// for tests and headless wiring.
package userio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ErrInputClosed indicates the input stream ended before a reply.
var ErrInputClosed = errors.New("input closed before reply")

// Terminal prompts on a writer and reads one line from a reader,
// normally stdout and stdin.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	mu  sync.Mutex
}

// NewTerminal creates a terminal user oracle on stdin/stdout.
func NewTerminal() *Terminal {
	return NewTerminalIO(os.Stdin, os.Stdout)
}

// NewTerminalIO creates a terminal user oracle on the given streams.
func NewTerminalIO(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Prompt implements oracle.User. The read itself is not interruptible;
// a cancelled context is honored before blocking.
func (t *Terminal) Prompt(ctx context.Context, prompt string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprintf(t.out, "\n%s\n> ", prompt)

	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return trimLine(line), nil
		}
		return "", fmt.Errorf("%w: %w", ErrInputClosed, err)
	}
	return trimLine(line), nil
}

func trimLine(line string) string {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}

// Scripted returns a predefined sequence of replies for testing.
type Scripted struct {
	replies []string
	index   int
	mu      sync.Mutex
}

// NewScripted creates a scripted user oracle with the given replies.
func NewScripted(replies ...string) *Scripted {
	return &Scripted{replies: replies}
}

// Prompt returns the next scripted reply.
func (s *Scripted) Prompt(_ context.Context, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index >= len(s.replies) {
		return "", ErrInputClosed
	}
	reply := s.replies[s.index]
	s.index++
	return reply, nil
}

// Remaining returns the number of unused replies.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.replies) - s.index
}

// Denying always fails. Headless runs are wired with it so that any
// attempt to consult the user is a bug that surfaces loudly rather
// than a silent hang.
type Denying struct{}

// NewDenying creates a denying user oracle.
func NewDenying() *Denying {
	return &Denying{}
}

// Prompt always returns an error.
func (Denying) Prompt(_ context.Context, _ string) (string, error) {
	return "", errors.New("user interaction is not available in this run")
}
