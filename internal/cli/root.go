// ABOUTME: Root cobra command for the streamplay binary
// ABOUTME: Wires persistent flags, the optional YAML config file and env overrides into viper
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Resonate-Protocol/streamplay/internal/version"
)

// EnvPrefix prefixes environment overrides, e.g. STREAMPLAY_SAMPLE_RATE
const EnvPrefix = "STREAMPLAY"

// NewRootCommand builds the command tree around a fresh viper instance
func NewRootCommand() *cobra.Command {
	return newRootCommand(viper.New())
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "streamplay",
		Short:         "Gap-free playback of streamed audio fragments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v, cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "YAML config file")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-file", "streamplay.log", "Log file path (empty disables file logging)")

	root.AddCommand(newPlayCommand(v), newVersionCommand())
	return root
}

// loadConfig binds the invoked command's flags and reads --config. Flags
// set on the command line win over env vars, which win over the file.
func loadConfig(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return err
		},
	}
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}
