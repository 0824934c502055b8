// Package runtimetest provides a scripted runtime.Runner for tests.
package runtimetest

import (
	"context"
	"fmt"

	"github.com/catdiffuse/catdiffuse-setup/internal/runtime"
)

// Response is the scripted result of one command line.
type Response struct {
	Output runtime.Output
	Err    error
}

// Fake records every command and answers from Responses, keyed by
// Command.String(). Unscripted commands succeed with empty output.
type Fake struct {
	// Paths maps executable names to LookPath results. Names absent from
	// the map are reported as not found.
	Paths     map[string]string
	Responses map[string]Response
	// OnRun, when set, is called before each command is answered.
	OnRun func(c runtime.Command)

	Calls []runtime.Command
}

// NewFake returns a Fake on which the given executables resolve to /usr/bin.
func NewFake(found ...string) *Fake {
	f := &Fake{
		Paths:     make(map[string]string),
		Responses: make(map[string]Response),
	}
	for _, name := range found {
		f.Paths[name] = "/usr/bin/" + name
	}
	return f
}

// Script sets the response for a command line.
func (f *Fake) Script(line string, exitCode int, stdout string) {
	f.Responses[line] = Response{Output: runtime.Output{ExitCode: exitCode, Stdout: stdout}}
}

func (f *Fake) Run(_ context.Context, c runtime.Command) (*runtime.Output, error) {
	f.Calls = append(f.Calls, c)
	if f.OnRun != nil {
		f.OnRun(c)
	}
	resp, ok := f.Responses[c.String()]
	if !ok {
		return &runtime.Output{}, nil
	}
	out := resp.Output
	return &out, resp.Err
}

func (f *Fake) LookPath(name string) (string, error) {
	if p, ok := f.Paths[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

// Lines returns the recorded command lines in order.
func (f *Fake) Lines() []string {
	lines := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		lines[i] = c.String()
	}
	return lines
}
