package cli

import (
	"io"
	"os"

	"github.com/catdiffuse/catdiffuse-setup/internal/logging"
	"github.com/catdiffuse/catdiffuse-setup/internal/runtime"
	"github.com/catdiffuse/catdiffuse-setup/internal/setup"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func runSetup(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	logPath := ""
	if s.Log.File != "" {
		logPath = s.Path(s.Log.File)
	}
	logger, err = logging.New(logPath, s.Log.Level, verbose)
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	interactive := isTerminal(in)
	logger.Debug("starting setup",
		zap.String("version", buildVersion),
		zap.Bool("interactive", interactive))

	runner := &runtime.ExecRunner{
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}
	// Piped input is reserved for the setup prompts; only a terminal is shared
	// with children (the bot may ask for a password during its dry-run).
	if interactive {
		runner.Stdin = in
	}

	_, err = setup.New(s, runner, in, cmd.OutOrStdout(), logger).Run(cmd.Context())
	return err
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
