package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/catdiffuse/catdiffuse-setup/internal/config"
	"github.com/catdiffuse/catdiffuse-setup/internal/prompt"
	"github.com/catdiffuse/catdiffuse-setup/internal/runtime"
	"github.com/catdiffuse/catdiffuse-setup/internal/scaffold"
	"github.com/catdiffuse/catdiffuse-setup/internal/status"
	"go.uber.org/zap"
)

// credentialsPerm keeps the bot password out of reach of other local users.
const credentialsPerm os.FileMode = 0600

// Orchestrator runs the setup steps against one project directory.
type Orchestrator struct {
	settings *config.Settings
	runner   runtime.Runner
	in       *prompt.Reader
	out      *status.Printer
	logger   *zap.Logger
}

// Outcome summarizes a run, complete or not.
type Outcome struct {
	// Reached is the last step that started.
	Reached     Step
	Completed   bool
	Interpreter *runtime.Interpreter
	// Installed is true when dependencies were installed during this run.
	Installed bool
	// Created lists the files scaffolded during this run.
	Created []string
	DryRun  bool
}

// New returns an Orchestrator. A nil logger disables structured logging.
func New(s *config.Settings, r runtime.Runner, in io.Reader, out io.Writer, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		settings: s,
		runner:   r,
		in:       prompt.NewReader(in),
		out:      status.New(out),
		logger:   logger,
	}
}

type stepFunc func(ctx context.Context, o *Outcome) error

// Run executes every step in order and stops at the first failure, which is
// returned as a *StepError.
func (orch *Orchestrator) Run(ctx context.Context) (*Outcome, error) {
	steps := []struct {
		step    Step
		heading string
		fn      stepFunc
	}{
		{StepInterpreter, "Checking Python installation", orch.checkInterpreter},
		{StepDependencies, "Checking dependencies", orch.checkDependencies},
		{StepCredentials, "Checking credentials file", orch.scaffoldCredentials},
		{StepFrameworkConfig, "Checking Pywikibot configuration", orch.scaffoldFrameworkConfig},
		{StepTests, "Running tests", orch.runTests},
		{StepSummary, "Setup complete", orch.summarize},
	}

	outcome := &Outcome{}
	orch.logger.Info("setup started", zap.String("dir", orch.settings.Dir), zap.String("settings_file", orch.settings.File))

	for i, s := range steps {
		if err := ctx.Err(); err != nil {
			return outcome, &StepError{Step: s.step, Err: err}
		}
		outcome.Reached = s.step

		if i > 0 {
			fmt.Fprintln(orch.out.Writer())
		}
		orch.out.Heading("[%d/%d] %s", int(s.step), StepCount, s.heading)

		start := time.Now()
		err := s.fn(ctx, outcome)
		fields := []zap.Field{
			zap.Int("step", int(s.step)),
			zap.String("name", s.step.String()),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			orch.logger.Error("step failed", append(fields, zap.Error(err))...)
			return outcome, &StepError{Step: s.step, Err: err}
		}
		orch.logger.Info("step completed", fields...)
	}

	// An interrupt during the last step may still have let it return cleanly.
	if err := ctx.Err(); err != nil {
		return outcome, &StepError{Step: StepSummary, Err: err}
	}

	outcome.Completed = true
	orch.logger.Info("setup completed",
		zap.Bool("installed", outcome.Installed),
		zap.Strings("created", outcome.Created),
		zap.Bool("dry_run", outcome.DryRun))
	return outcome, nil
}

func (orch *Orchestrator) python(args ...string) runtime.Command {
	return runtime.Command{Name: orch.settings.Python.Interpreter, Args: args, Dir: orch.settings.Dir}
}

func (orch *Orchestrator) checkInterpreter(ctx context.Context, o *Outcome) error {
	s := orch.settings.Python

	in, err := runtime.Probe(ctx, orch.runner, s.Interpreter)
	if err != nil {
		if errors.Is(err, runtime.ErrInterpreterNotFound) {
			orch.out.Fail("%s not found", s.Interpreter)
		} else {
			orch.out.Fail("%s did not report a version", s.Interpreter)
		}
		orch.out.Detail("Please install Python %s or newer.", s.MinVersion)
		return fmt.Errorf("Python %s or newer is required: %w", s.MinVersion, err)
	}
	o.Interpreter = in

	orch.out.OK("%s found at %s", in.Banner, in.Path)
	if in.Version == nil {
		orch.out.Warn("could not parse a version from %q", in.Banner)
		return nil
	}
	ok, err := runtime.MeetsMinimum(in.Version, s.MinVersion)
	if err != nil {
		return err
	}
	if !ok {
		orch.out.Warn("Python %s is older than the recommended %s", in.Version, s.MinVersion)
	}
	return nil
}

func (orch *Orchestrator) checkDependencies(ctx context.Context, o *Outcome) error {
	d := orch.settings.Dependency

	probe := orch.python("-c", "import "+d.Module)
	probe.Quiet = true
	out, err := orch.runner.Run(ctx, probe)
	if err != nil {
		return fmt.Errorf("checking for %s: %w", d.Module, err)
	}
	if out.Success() {
		orch.out.OK("%s already installed", d.Module)
		return nil
	}

	orch.out.Miss("%s not installed", d.Module)
	if _, err := os.Stat(orch.settings.Path(d.Manifest)); err != nil {
		return fmt.Errorf("dependency manifest: %w", err)
	}

	orch.out.Info("Installing dependencies from %s...", d.Manifest)
	if _, err := runtime.RunChecked(ctx, orch.runner, orch.python("-m", "pip", "install", "-r", d.Manifest)); err != nil {
		return fmt.Errorf("installing dependencies from %s: %w", d.Manifest, err)
	}
	o.Installed = true
	orch.out.OK("Dependencies installed")
	return nil
}

func (orch *Orchestrator) scaffoldCredentials(ctx context.Context, o *Outcome) error {
	c := orch.settings.Credentials
	return orch.scaffold(ctx, o, scaffold.File{
		Dir:      orch.settings.Dir,
		Template: c.Template,
		Target:   c.Target,
		Perm:     credentialsPerm,
		Instructions: []string{
			fmt.Sprintf("Edit %s and add your bot username and bot password.", c.Target),
			"Create a bot password at: " + c.HelpURL,
		},
	})
}

func (orch *Orchestrator) scaffoldFrameworkConfig(ctx context.Context, o *Outcome) error {
	c := orch.settings.FrameworkConfig
	return orch.scaffold(ctx, o, scaffold.File{
		Dir:      orch.settings.Dir,
		Template: c.Template,
		Target:   c.Target,
		Instructions: []string{
			fmt.Sprintf("Edit %s and replace 'YourBotName' with your bot account name.", c.Target),
			"Reference: " + c.HelpURL,
		},
	})
}

func (orch *Orchestrator) scaffold(ctx context.Context, o *Outcome, f scaffold.File) error {
	res, err := scaffold.IfAbsent(ctx, orch.out, orch.in, f)
	if res != nil && res.Created {
		o.Created = append(o.Created, f.Target)
	}
	return err
}

func (orch *Orchestrator) runTests(ctx context.Context, _ *Outcome) error {
	path := orch.settings.Tests.Path
	if _, err := runtime.RunChecked(ctx, orch.runner, orch.python("-m", "pytest", path, "-v")); err != nil {
		orch.out.Fail("Tests failed")
		return fmt.Errorf("running %s: %w", path, err)
	}
	orch.out.OK("All tests passed")
	return nil
}

// NextSteps returns the suggested commands printed after a successful setup.
func NextSteps(s *config.Settings) []string {
	py, bot := s.Python.Interpreter, s.Bot.Entry
	return []string{
		fmt.Sprintf("Preview changes:     %s %s --dry-run --limit 10", py, bot),
		fmt.Sprintf("Custom templates:    %s %s --templates \"CatDiffuse,Cat diffuse\" --threshold 200 --dry-run", py, bot),
		fmt.Sprintf("Live run (approved): %s %s --limit 50", py, bot),
		fmt.Sprintf("Follow the log:      tail -f %s", s.Bot.LogFile),
	}
}

func (orch *Orchestrator) summarize(ctx context.Context, o *Outcome) error {
	w := orch.out.Writer()
	fmt.Fprintln(w, "Next steps:")
	for i, line := range NextSteps(orch.settings) {
		fmt.Fprintf(w, "  %d. %s\n", i+1, line)
	}
	fmt.Fprintln(w)

	b := orch.settings.Bot
	yes, err := prompt.Confirm(ctx, orch.in, w, fmt.Sprintf("Run a dry-run now (limit %d)?", b.DryRunLimit))
	if err != nil {
		return err
	}
	if !yes {
		return nil
	}

	fmt.Fprintln(w)
	orch.out.Info("Running %s in dry-run mode...", b.Entry)
	dryRun := orch.python(b.Entry, "--dry-run", "--limit", strconv.Itoa(b.DryRunLimit))
	if _, err := runtime.RunChecked(ctx, orch.runner, dryRun); err != nil {
		return fmt.Errorf("dry-run: %w", err)
	}
	o.DryRun = true
	fmt.Fprintf(w, "\nCheck %s for details.\n", b.LogFile)
	return nil
}
