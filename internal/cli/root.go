package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/catdiffuse/catdiffuse-setup/internal/branding"
	"github.com/catdiffuse/catdiffuse-setup/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	projectDir   string
	settingsFile string
	verbose      bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` prepares a checkout of the CatDiffuse bot for first use.

Run without arguments in the project directory. It checks for Python, installs
the dependencies from requirements.txt, creates .env and user-config.py from
their templates (pausing so you can edit them), runs the unit tests and offers
a dry-run of ` + branding.BotName() + `.

Steps that are already satisfied are skipped. The first failing step ends the run.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSetup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "C", ".", "Bot project directory")
	rootCmd.PersistentFlags().StringVar(&settingsFile, "config", "", "Settings file (default <dir>/"+branding.ConfigFile()+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug-level entries in the setup log")
}

func loadSettings() (*config.Settings, error) {
	return config.Load(projectDir, settingsFile)
}

// Execute runs the root command with build info injected via ldflags.
// An interrupt cancels the running step, its child process or a pending prompt.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// After the first signal a second one gets the default behavior.
	go func() {
		<-ctx.Done()
		stop()
	}()
	defer func() { _ = logger.Sync() }()
	return rootCmd.ExecuteContext(ctx)
}
