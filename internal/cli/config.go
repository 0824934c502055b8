package cli

import (
	"fmt"
	"strings"

	"github.com/catdiffuse/catdiffuse-setup/internal/branding"
	"github.com/catdiffuse/catdiffuse-setup/internal/config"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change project settings",
	Long: `Read and write the per-project settings file. Every setting can also be
overridden with an environment variable: python.interpreter becomes
` + branding.EnvVar(envKey("python.interpreter")) + ".",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshaling settings: %w", err)
		}

		w := cmd.OutOrStdout()
		if s.File != "" {
			fmt.Fprintf(w, "# settings file: %s\n", s.File)
		} else {
			fmt.Fprintln(w, "# settings file: none (defaults)")
		}
		fmt.Fprintf(w, "# project: %s\n", s.Dir)
		fmt.Fprint(w, string(out))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting in the project settings file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		file, err := config.Set(projectDir, settingsFile, key, value)
		if err != nil {
			return fmt.Errorf("setting %q: %w", key, err)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Set %s = %s in %s\n", key, value, file)
		fmt.Fprintf(w, "%s overrides it when set.\n", branding.EnvVar(envKey(key)))
		return nil
	},
}

// envKey maps a setting key to the suffix of its environment variable.
func envKey(key string) string {
	return strings.ReplaceAll(key, ".", "_")
}
