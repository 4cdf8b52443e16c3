package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/amp-labs/amp-sortby/fieldsort"
	"github.com/amp-labs/amp-sortby/logger"
	"github.com/amp-labs/amp-sortby/sortby"
	"github.com/amp-labs/amp-sortby/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "SORTRECORDS"

const (
	flagKey         = "key"
	flagOutput      = "output"
	flagParallelism = "parallelism"
	flagLogLevel    = "log-level"
	flagLogJSON     = "log-json"
	flagTraceURL    = "trace-endpoint"
	flagTraceWait   = "trace-timeout"
)

type settings struct {
	keys        []string
	output      string
	parallelism int
	logLevel    slog.Level
	logJSON     bool
	tracing     telemetry.Config
}

func newRootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "sortrecords [file]",
		Short: "Sort YAML or JSON records by field paths",
		Long: `Sort YAML or JSON records by one or more field paths.

Input is a sequence of mappings, or a stream of mapping documents, read from
the named file or stdin. Each --key is path[:option...] where options are a
direction (asc, desc), a kind (auto, string, natural, number, time, bool),
nullsfirst/nullslast, or ci for case-insensitive keys. The first key is the
primary one; later keys break ties.

Every flag can also be set through a SORTRECORDS_ environment variable, for
example SORTRECORDS_OUTPUT=json or SORTRECORDS_KEY="age:desc name".
With --trace-endpoint set, sort spans are exported over OTLP/HTTP.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(v)
			if err != nil {
				return err
			}

			return run(cmd, args, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceP(flagKey, "k", nil, "sort key as path[:asc|desc][:kind] (repeatable)")
	flags.StringP(flagOutput, "o", formatYAML, "output format: yaml or json")
	flags.IntP(flagParallelism, "p", 1, "workers used to extract keys from large inputs")
	flags.String(flagLogLevel, "warn", "log level: debug, info, warn or error")
	flags.Bool(flagLogJSON, false, "write logs as JSON")
	flags.String(flagTraceURL, "", "OTLP/HTTP traces endpoint; tracing is off when empty")
	flags.Duration(flagTraceWait, 5*time.Second, "timeout for exporting traces") //nolint:mnd

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	cobra.CheckErr(v.BindPFlags(flags))

	return cmd
}

func loadSettings(v *viper.Viper) (settings, error) {
	cfg := settings{
		keys:        v.GetStringSlice(flagKey),
		output:      v.GetString(flagOutput),
		parallelism: v.GetInt(flagParallelism),
		logJSON:     v.GetBool(flagLogJSON),
		tracing: telemetry.Config{
			ServiceName: "sortrecords",
			Endpoint:    v.GetString(flagTraceURL),
			Timeout:     v.GetDuration(flagTraceWait),
		},
	}

	switch strings.ToLower(cfg.output) {
	case formatYAML, "yml", formatJSON:
	default:
		return settings{}, fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.output)
	}

	if len(cfg.keys) == 0 {
		return settings{}, fmt.Errorf("%w (use --%s)", fieldsort.ErrNoFields, flagKey)
	}

	if err := cfg.logLevel.UnmarshalText([]byte(v.GetString(flagLogLevel))); err != nil {
		return settings{}, fmt.Errorf("invalid --%s: %w", flagLogLevel, err)
	}

	return cfg, nil
}

func run(cmd *cobra.Command, args []string, cfg settings) error {
	log := logger.ConfigureLoggingWithOptions(logger.Options{
		Subsystem: "sortrecords",
		JSON:      cfg.logJSON,
		MinLevel:  cfg.logLevel,
		Output:    cmd.ErrOrStderr(),
	})

	ctx := logger.WithLogger(cmd.Context(), log)

	shutdownTracing, err := telemetry.Initialize(ctx, cfg.tracing)
	if err != nil {
		return report(log, err)
	}

	defer func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.tracing.Timeout)
		defer cancel()

		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("flushing traces failed", "error", err)
		}
	}()

	fields, err := fieldsort.ParseFields(cfg.keys)
	if err != nil {
		return report(log, err)
	}

	input := cmd.InOrStdin()

	if len(args) == 1 && args[0] != "-" {
		file, err := os.Open(args[0])
		if err != nil {
			return report(log, err)
		}

		defer file.Close()

		input = file
	}

	records, err := readRecords(input)
	if err != nil {
		return report(log, err)
	}

	log.Debug("read records", "count", len(records), "keys", cfg.keys)

	sorted, err := fieldsort.Sort(ctx, records, fields,
		sortby.WithName("sortrecords"),
		sortby.WithParallelism(cfg.parallelism))
	if err != nil {
		return report(log, err)
	}

	return report(log, writeRecords(cmd.OutOrStdout(), cfg.output, sorted))
}

// loggedError marks an error that has already been written to the log.
type loggedError struct {
	err error
}

func (e *loggedError) Error() string { return e.err.Error() }

func (e *loggedError) Unwrap() error { return e.err }

func report(log *slog.Logger, err error) error {
	if err == nil {
		return nil
	}

	log.Error("sortrecords failed", "error", err)

	return &loggedError{err: err}
}

// execute runs cmd and prints errors that were not logged, such as unknown
// flags or a bad argument count, to the command's stderr.
func execute(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var logged *loggedError
	if !errors.As(err, &logged) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}

	return err
}
