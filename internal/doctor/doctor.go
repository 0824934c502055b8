// Package doctor reports on a bot checkout without changing it: interpreter,
// dependencies, templates, scaffolded files and the test and bot entry points.
package doctor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/catdiffuse/catdiffuse-setup/internal/config"
	rt "github.com/catdiffuse/catdiffuse-setup/internal/runtime"
	"github.com/catdiffuse/catdiffuse-setup/internal/status"
	"github.com/joho/godotenv"
)

// placeholderBotName is the account name shipped in user-config-template.py.
const placeholderBotName = "YourBotName"

// Report counts the findings of a check.
type Report struct {
	Problems int // missing or failing items; setup would fail or must create them
	Warnings int
}

// OK reports whether nothing is missing.
func (r *Report) OK() bool { return r.Problems == 0 }

type checker struct {
	p      *status.Printer
	s      *config.Settings
	report Report
}

func (c *checker) miss(format string, args ...interface{}) {
	c.report.Problems++
	c.p.Miss(format, args...)
}

func (c *checker) fail(format string, args ...interface{}) {
	c.report.Problems++
	c.p.Fail(format, args...)
}

func (c *checker) warn(format string, args ...interface{}) {
	c.report.Warnings++
	c.p.Warn(format, args...)
}

// Check inspects the project described by s and writes a report to w.
// It never writes to the project directory.
func Check(ctx context.Context, w io.Writer, s *config.Settings, r rt.Runner) (*Report, error) {
	c := &checker{p: status.New(w), s: s}

	c.p.Heading("Interpreter:")
	found, err := c.checkInterpreter(ctx, r)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(w)
	c.p.Heading("Dependencies:")
	c.checkFile(s.Dependency.Manifest, "dependency manifest")
	if found {
		if err := c.checkModule(ctx, r); err != nil {
			return nil, err
		}
	} else {
		c.p.Skip("cannot check %s without an interpreter", s.Dependency.Module)
	}

	fmt.Fprintln(w)
	c.p.Heading("Configuration:")
	c.checkFile(s.Credentials.Template, "credentials template")
	c.checkCredentials()
	c.checkFile(s.FrameworkConfig.Template, "framework config template")
	c.checkFrameworkConfig()

	fmt.Fprintln(w)
	c.p.Heading("Project:")
	c.checkFile(s.Tests.Path, "test suite")
	c.checkFile(s.Bot.Entry, "bot entry point")

	fmt.Fprintln(w)
	if c.report.OK() {
		fmt.Fprintf(w, "No problems found (%d warning(s)).\n", c.report.Warnings)
	} else {
		fmt.Fprintf(w, "%d problem(s), %d warning(s).\n", c.report.Problems, c.report.Warnings)
	}
	return &c.report, nil
}

func (c *checker) checkInterpreter(ctx context.Context, r rt.Runner) (bool, error) {
	py := c.s.Python
	in, err := rt.Probe(ctx, r, py.Interpreter)
	if err != nil {
		if errors.Is(err, rt.ErrInterpreterNotFound) {
			c.miss("%s not found (Python %s or newer is required)", py.Interpreter, py.MinVersion)
			return false, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		c.fail("%s: %v", py.Interpreter, err)
		return false, nil
	}

	c.p.OK("%s found at %s", in.Banner, in.Path)
	if in.Version == nil {
		c.warn("could not parse a version from %q", in.Banner)
		return true, nil
	}
	if ok, err := rt.MeetsMinimum(in.Version, py.MinVersion); err != nil {
		return true, err
	} else if !ok {
		c.warn("Python %s is older than the recommended %s", in.Version, py.MinVersion)
	}
	return true, nil
}

func (c *checker) checkModule(ctx context.Context, r rt.Runner) error {
	mod := c.s.Dependency.Module
	out, err := r.Run(ctx, rt.Command{
		Name:  c.s.Python.Interpreter,
		Args:  []string{"-c", "import " + mod},
		Dir:   c.s.Dir,
		Quiet: true,
	})
	if err != nil {
		return fmt.Errorf("checking for %s: %w", mod, err)
	}
	if out.Success() {
		c.p.OK("%s is importable", mod)
	} else {
		c.miss("%s is not importable (run setup to install %s)", mod, c.s.Dependency.Manifest)
	}
	return nil
}

// checkFile reports whether a project-relative file exists.
func (c *checker) checkFile(rel, label string) bool {
	info, err := os.Stat(c.s.Path(rel))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.miss("%s %s does not exist", label, rel)
		} else {
			c.fail("%s %s: %v", label, rel, err)
		}
		return false
	}
	if info.IsDir() {
		c.fail("%s %s is a directory", label, rel)
		return false
	}
	c.p.OK("%s %s exists", label, rel)
	return true
}

func (c *checker) checkCredentials() {
	target := c.s.Credentials.Target
	if !c.checkFile(target, "credentials file") {
		c.p.Detail("Run setup to create it from %s.", c.s.Credentials.Template)
		return
	}

	path := c.s.Path(target)
	values, err := godotenv.Read(path)
	if err != nil {
		c.fail("%s could not be parsed: %v", target, err)
		return
	}
	if len(values) == 0 {
		c.warn("%s defines no variables", target)
	}

	var empty []string
	for k, v := range values {
		if strings.TrimSpace(v) == "" {
			empty = append(empty, k)
		}
	}
	sort.Strings(empty)
	if len(empty) > 0 {
		c.warn("%s has empty values: %s", target, strings.Join(empty, ", "))
		c.p.Detail("Create a bot password at: %s", c.s.Credentials.HelpURL)
	}

	if runtime.GOOS != "windows" {
		if info, err := os.Stat(path); err == nil && info.Mode().Perm()&0o077 != 0 {
			c.warn("%s has permissions %o (expected 600)", target, info.Mode().Perm())
		}
	}
}

func (c *checker) checkFrameworkConfig() {
	target := c.s.FrameworkConfig.Target
	if !c.checkFile(target, "framework config") {
		c.p.Detail("Run setup to create it from %s.", c.s.FrameworkConfig.Template)
		return
	}
	data, err := os.ReadFile(c.s.Path(target))
	if err != nil {
		c.fail("%s: %v", target, err)
		return
	}
	if bytes.Contains(data, []byte(placeholderBotName)) {
		c.warn("%s still uses the placeholder account %q", target, placeholderBotName)
	}
}
