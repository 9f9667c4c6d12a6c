package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-barber/pkg/openapi"
	"github.com/goliatone/go-barber/pkg/orchestrator"
)

// EnvPrefix prefixes environment overrides, e.g. BARBER_INSTALL.
const EnvPrefix = "BARBER"

// Option customises the command tree.
type Option func(*app)

// WithLogger skips logger construction and uses logger instead.
func WithLogger(logger *zap.Logger) Option {
	return func(a *app) {
		a.logger = logger
	}
}

// WithPrompter replaces the survey prompter.
func WithPrompter(p Prompter) Option {
	return func(a *app) {
		a.prompter = p
	}
}

// WithTerminal overrides stdin terminal detection.
func WithTerminal(isTerminal bool) Option {
	return func(a *app) {
		a.terminal = &isTerminal
	}
}

type app struct {
	v        *viper.Viper
	logger   *zap.Logger
	prompter Prompter
	terminal *bool
}

// NewRootCommand builds the barber command tree.
func NewRootCommand(options ...Option) *cobra.Command {
	a := &app{v: viper.New()}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}
	if a.prompter == nil {
		a.prompter = surveyPrompter{}
	}

	root := &cobra.Command{
		Use:           "barber",
		Short:         "Render structured copy into document shapes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("install", "", "directory holding document copy files")
	flags.String("specs", "", "OpenAPI document declaring document specs")
	flags.String("config", "", "config file (yaml, json or toml)")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	for _, name := range []string{"install", "specs", "verbose"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(newListCommand(a), newRenderCommand(a))
	return root
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix(EnvPrefix)
	a.v.AutomaticEnv()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("cli: read config %s: %w", path, err)
		}
	}

	if a.logger != nil {
		return nil
	}
	config := zap.NewProductionConfig()
	if a.v.GetBool("verbose") {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("cli: initialise logger: %w", err)
	}
	a.logger = logger
	return nil
}

func (a *app) isTerminal() bool {
	if a.terminal != nil {
		return *a.terminal
	}
	return stdinIsTerminal()
}

// barber installs the configured copies and specs.
func (a *app) barber(ctx context.Context) (*orchestrator.Orchestrator, error) {
	opts := []orchestrator.Option{orchestrator.WithLogger(a.logger)}

	dir := a.v.GetString("install")
	if dir == "" {
		return nil, fmt.Errorf("cli: --install is required (or set %s_INSTALL)", EnvPrefix)
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("cli: install directory: %w", err)
	}
	opts = append(opts, orchestrator.WithInstallFS(os.DirFS(dir)))

	if specs := a.v.GetString("specs"); specs != "" {
		data, err := openapi.ReadFile(ctx, nil, specs)
		if err != nil {
			return nil, fmt.Errorf("cli: %w", err)
		}
		reg, err := openapi.LoadRegistry(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("cli: %w", err)
		}
		opts = append(opts, orchestrator.WithDescriptors(reg))
	}

	return orchestrator.New(opts...)
}

func writeJSON(w io.Writer, v any) error {
	enc := newJSONEncoder(w)
	return enc.Encode(v)
}
