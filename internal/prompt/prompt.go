// Package prompt asks the operator for values, offering a default.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ErrNoInput is returned when the input is exhausted before an answer is read
var ErrNoInput = errors.New("no input available")

// Prompter presents a message with a default value and returns the answer.
// An empty answer selects the default.
type Prompter interface {
	Prompt(message, defaultValue string) (string, error)
}

var highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#20B9B4")).Bold(true)

func highlight(s string) string {
	return highlightStyle.Render(s)
}

// LinePrompter reads answers line by line, for pipes and non-terminal input
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a prompter reading from in and writing prompts to out
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (p *LinePrompter) Prompt(message, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", message, defaultValue)
	} else {
		fmt.Fprintf(p.out, "%s: ", message)
	}

	line, err := p.in.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		if line == "" {
			return "", ErrNoInput
		}
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return defaultValue, nil
	}
	return answer, nil
}

// TerminalPrompter asks through an interactive terminal input field.
// It owns the terminal, so only it styles the default value.
type TerminalPrompter struct{}

func (TerminalPrompter) Prompt(message, defaultValue string) (string, error) {
	answer := defaultValue
	err := huh.NewInput().
		Title(message).
		Description(defaultDescription(defaultValue)).
		Placeholder(defaultValue).
		Value(&answer).
		Run()
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return defaultValue, nil
	}
	return answer, nil
}

func defaultDescription(defaultValue string) string {
	if defaultValue == "" {
		return ""
	}
	return "default: " + highlight(defaultValue)
}
