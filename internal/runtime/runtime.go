package runtime

import (
	"context"
	"fmt"
	"strings"
)

// Runner executes external commands.
type Runner interface {
	// Run executes c and waits for it. A non-zero exit status is reported in
	// Output.ExitCode; the error is reserved for failures to start or wait.
	Run(ctx context.Context, c Command) (*Output, error)
	// LookPath resolves an executable name against the search path.
	LookPath(name string) (string, error)
}

// Command describes one external process.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Quiet captures output without streaming it to the runner's writers.
	Quiet bool
}

// String renders the command line the way an operator would type it.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quoteArg(c.Name))
	for _, a := range c.Args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\"'") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

// Output captures the result of a command.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the command exited with status zero.
func (o *Output) Success() bool {
	return o != nil && o.ExitCode == 0
}

// ExitError describes a command that ran but exited non-zero.
type ExitError struct {
	Command  Command
	ExitCode int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
}

// RunChecked runs c and turns a non-zero exit status into an *ExitError.
func RunChecked(ctx context.Context, r Runner, c Command) (*Output, error) {
	out, err := r.Run(ctx, c)
	if err != nil {
		return out, err
	}
	if !out.Success() {
		return out, &ExitError{Command: c, ExitCode: out.ExitCode}
	}
	return out, nil
}
