// Package cli implements the compdb command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/albertocavalcante/compdb/internal/log"
	"github.com/albertocavalcante/compdb/pkg/compdb"
	"github.com/albertocavalcante/compdb/pkg/config"
	"github.com/albertocavalcante/compdb/pkg/walker"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// EnvPrefix prefixes the environment variables bound to flags.
const EnvPrefix = "COMPDB"

var progress = color.New(color.FgCyan)

var rootCmd = newRootCmd()

// newRootCmd builds the compdb command with its own flag set and viper
// instance. Flags win over COMPDB_* environment variables.
func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "compdb",
		Short: "Generate a compilation database",
		Long: `Compdb walks a C/C++ source tree and writes a compile_commands.json
describing how every source file would be compiled.

Build settings come from a TOML (or YAML) file with a [general] section and
optional per-directory override sections. Every flag can also be set through
a COMPDB_<FLAG> environment variable, e.g. COMPDB_OUTPUT or
COMPDB_LEGACY_FRAMING.`,
		Args:          cobra.NoArgs,
		Version:       fmt.Sprintf("%s (%s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, v)
		},
	}
	cmd.SetVersionTemplate("compdb {{.Version}}\n")

	flags := cmd.Flags()
	flags.StringP("config", "c", config.DefaultFileName, "Path to the configuration file")
	flags.StringP("root", "r", ".", "Root of the source tree")
	flags.StringP("output", "o", compdb.DefaultFileName, "Path of the compilation database to write")
	flags.Bool("legacy-framing", false, "Write one JSON array per record instead of a single array")
	flags.Bool("ignore-overrides", false, "Use the general section for every file")
	flags.Bool("no-color", false, "Disable colored output")
	flags.IntP("verbosity", "v", 1, "Verbosity level (0=error, 1=warn, 2=info, 3=debug, 4=trace)")
	flags.String("log-format", string(log.FormatText), "Log format (text, json)")

	_ = v.BindPFlags(flags)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper) error {
	format, err := log.ParseFormat(v.GetString("log-format"))
	if err != nil {
		return err
	}
	log.Init(log.Options{
		Verbosity: v.GetInt("verbosity"),
		Format:    format,
		Output:    cmd.ErrOrStderr(),
	})
	if v.GetBool("no-color") {
		color.NoColor = true
	}

	root := v.GetString("root")
	configPath := resolveConfigPath(v, root)
	log.Debug("using configuration", "path", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	realRoot, err := walker.Canonicalize(root)
	if err != nil {
		return err
	}
	progress.Fprintf(cmd.OutOrStdout(), "Indexing %s\n", realRoot)

	out, err := compdb.Create(v.GetString("output"))
	if err != nil {
		return err
	}

	legacy := v.GetBool("legacy-framing")
	collector := compdb.NewCollector()
	stream := compdb.NewStreamSink(out.Writer())
	var sink compdb.Sink = collector
	if legacy {
		sink = stream
	}

	stats, err := walker.Walk(cmd.Context(), realRoot, cfg, sink, walker.Options{
		IgnoreOverrides: v.GetBool("ignore-overrides"),
	})
	if err != nil {
		out.Abort()
		return err
	}
	if legacy {
		log.Debug("streamed records", "count", stream.Count())
	} else if err := out.WriteRecords(collector.Records()); err != nil {
		out.Abort()
		return err
	}

	changed, err := out.Commit()
	if err != nil {
		return err
	}
	if changed {
		log.Info("wrote compilation database", "path", out.Path(), "records", stats.Records)
	} else {
		log.Info("compilation database unchanged", "path", out.Path(), "records", stats.Records)
	}
	return nil
}

// resolveConfigPath returns the explicit --config value when one was given.
// Otherwise config.toml in the working directory is preferred, then the
// nearest project config found from root upwards.
func resolveConfigPath(v *viper.Viper, root string) string {
	path := v.GetString("config")
	if v.IsSet("config") {
		return path
	}
	if _, err := os.Stat(path); err == nil || !errors.Is(err, os.ErrNotExist) {
		return path
	}
	if found, ok := config.Find(root); ok {
		return found
	}
	return path
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("compdb failed", "error", err)
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}
