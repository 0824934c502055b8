package cli

import (
	"fmt"

	"github.com/catdiffuse/catdiffuse-setup/internal/doctor"
	"github.com/catdiffuse/catdiffuse-setup/internal/runtime"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report on the project without changing it",
	Long: `Check the interpreter, dependencies, templates, credentials, framework
config, test suite and bot entry point. Nothing is created or installed.
Exits non-zero when something setup would need to create or fix is missing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}

		runner := &runtime.ExecRunner{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
		report, err := doctor.Check(cmd.Context(), cmd.OutOrStdout(), s, runner)
		if err != nil {
			return err
		}
		if !report.OK() {
			return fmt.Errorf("%d problem(s) found", report.Problems)
		}
		return nil
	},
}
