// Package prompt defines the yes/no question channel between the snippet
// manager and whatever is driving it, plus a line-based implementation for
// terminals.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Kind selects the type of question being asked.
type Kind int

const (
	KindYesNo Kind = iota
)

// Answer is the user's reply to a yes/no question.
type Answer int

const (
	// AnswerNone means no decision was made (empty input, closed input).
	// It is not a refusal.
	AnswerNone Answer = iota
	AnswerYes
	AnswerNo
)

// Prompter asks the user a question.
type Prompter interface {
	Prompt(ctx context.Context, msg string, kind Kind) (Answer, error)
}

// Func adapts a function to the Prompter interface.
type Func func(ctx context.Context, msg string, kind Kind) (Answer, error)

// Prompt calls f.
func (f Func) Prompt(ctx context.Context, msg string, kind Kind) (Answer, error) {
	return f(ctx, msg, kind)
}

// Fixed returns a Prompter that always gives the same answer.
func Fixed(a Answer) Prompter {
	return Func(func(context.Context, string, Kind) (Answer, error) {
		return a, nil
	})
}

// Lines prompts on a writer and reads one line per answer.
type Lines struct {
	mu      sync.Mutex
	out     io.Writer
	scanner *bufio.Scanner
}

// NewLines creates a line prompter reading from in and writing to out.
func NewLines(in io.Reader, out io.Writer) *Lines {
	return &Lines{out: out, scanner: bufio.NewScanner(in)}
}

// Prompt writes msg followed by a space and parses the reply.
func (l *Lines) Prompt(ctx context.Context, msg string, _ Kind) (Answer, error) {
	line, ok, err := l.ReadLine(ctx, msg+" ")
	if err != nil || !ok {
		return AnswerNone, err
	}
	return ParseAnswer(line), nil
}

// ReadLine writes prefix and reads one line. ok is false once the input
// is exhausted.
func (l *Lines) ReadLine(ctx context.Context, prefix string) (line string, ok bool, err error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprint(l.out, prefix)
	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return "", false, fmt.Errorf("reading input: %w", err)
		}
		return "", false, nil
	}
	return l.scanner.Text(), true, nil
}

// ParseAnswer interprets a typed reply.
func ParseAnswer(s string) Answer {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "y", "yes":
		return AnswerYes
	case "n", "no":
		return AnswerNo
	default:
		return AnswerNone
	}
}
