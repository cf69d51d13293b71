package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/specialistvlad/eligo/internal/app"
)

// EnvPrefix prefixes the environment variables that override flags, for
// example ELI_LOG_LEVEL.
const EnvPrefix = "ELI"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var (
		cfg     *app.Config
		cfgFile string
	)
	cmd := &cobra.Command{
		Use:   "eli-info [flags] [LIBRARY[.ELEMENT]...]",
		Short: "Document the element libraries this binary can load",
		Long: `eli-info loads every element library it can reach (libraries compiled
into the binary, statically linked legacy blocks and <library>.eli.hcl
manifests on the search path) and prints their documentation.

With no arguments every library is documented. An argument names a library,
or one element of it as library.element.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, targets []string) error {
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("failed to read config file: %w", err)
				}
				slog.Debug("Config file loaded.", "path", v.ConfigFileUsed())
			}
			c, err := app.NewConfig(app.Config{
				SearchPaths: v.GetStringSlice("search-path"),
				Targets:     targets,
				Format:      strings.ToLower(v.GetString("format")),
				LogFormat:   strings.ToLower(v.GetString("log-format")),
				LogLevel:    strings.ToLower(v.GetString("log-level")),
				Metrics:     v.GetBool("metrics"),
			})
			if err != nil {
				return err
			}
			cfg = c
			return nil
		},
	}
	// A nil slice would make cobra fall back to os.Args.
	cmd.SetArgs(append([]string{}, args...))
	cmd.SetOut(output)
	cmd.SetErr(output)

	flags := cmd.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "YAML config file holding any of the flags below.")
	flags.StringSliceP("search-path", "p", []string{"."}, "Directory searched for <library>.eli.hcl manifests. Repeatable.")
	flags.StringP("format", "f", app.FormatText, "Documentation format. Options: 'text', 'hcl' or 'yaml'.")
	flags.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flags.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.Bool("metrics", false, "Write factory metrics to stderr after the run.")
	if err := v.BindPFlags(flags); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if err := cmd.Execute(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if cfg == nil {
		slog.Debug("Help requested, exiting.")
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}
