package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/reagent/application"
	"github.com/felixgeelhaar/reagent/domain/agent"
	"github.com/felixgeelhaar/reagent/domain/oracle"
	"github.com/felixgeelhaar/reagent/domain/run"
	"github.com/felixgeelhaar/reagent/infrastructure/config"
	"github.com/felixgeelhaar/reagent/infrastructure/logging"
	"github.com/felixgeelhaar/reagent/infrastructure/planner"
	"github.com/felixgeelhaar/reagent/infrastructure/storage/sqlite"
	"github.com/felixgeelhaar/reagent/infrastructure/toolexec"
	"github.com/felixgeelhaar/reagent/infrastructure/userio"
)

// Run modes.
const (
	modeReact  = "react"
	modePrompt = "prompt"
	modeChat   = "chat"
)

// runOptions holds options for the run command.
type runOptions struct {
	mode        string
	endpoint    string
	model       string
	apiKey      string
	maxSteps    uint
	maxCost     uint
	interactive bool
	workdir     string
	verbose     bool
	envFile     string
	configPath  string
	storePath   string
}

// newRunCmd creates the run command.
func (a *App) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [task]",
		Short: "Run the agent on a task",
		Long: `Run the agent on the given task.

In the default react mode the model thinks, picks a tool, observes the
result, and repeats until it submits an answer or exhausts its step or
cost budget. The final answer is printed to stdout.

Examples:
  # Run a task headless
  reagent run "count the Go files under ./src"

  # Allow the agent to ask questions
  reagent run -i "refactor the config loader"

  # One-shot completion without the loop
  reagent run --mode prompt "explain this stack trace: ..."

  # Persist the finished run
  reagent run --store runs.db "summarize README.md"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task := ""
			if len(args) > 0 {
				task = args[0]
			}
			return a.runTask(cmd, opts, task)
		},
	}

	cmd.Flags().StringVar(&opts.mode, "mode", modeReact, "Execution mode: react, prompt, or chat")
	cmd.Flags().StringVarP(&opts.endpoint, "endpoint", "e", "", "Base URL of the OpenAI-compatible API")
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "Model identifier")
	cmd.Flags().StringVarP(&opts.apiKey, "api-key", "k", "", "API key (overrides environment)")
	cmd.Flags().UintVar(&opts.maxSteps, "max-steps", 0, "Maximum completed steps")
	cmd.Flags().UintVar(&opts.maxCost, "max-cost", 0, "Maximum accumulated token cost")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Allow the agent to ask the operator questions")
	cmd.Flags().StringVarP(&opts.workdir, "workdir", "w", "", "Working directory for tool execution")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "Env file to load (default .env if present)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Settings file (YAML or JSON)")
	cmd.Flags().StringVar(&opts.storePath, "store", "", "SQLite database to persist finished runs")

	return cmd
}

// resolveSettings merges defaults, config file, environment, and flags
// in ascending precedence.
func resolveSettings(cmd *cobra.Command, opts *runOptions) (config.Settings, error) {
	envFile := opts.envFile
	explicit := envFile != ""
	if envFile == "" {
		envFile = ".env"
	}
	if err := config.LoadEnvFile(envFile, explicit); err != nil {
		return config.Settings{}, err
	}

	settings := config.Default()
	if opts.configPath != "" {
		loaded, err := config.NewLoader().LoadFile(opts.configPath)
		if err != nil {
			return config.Settings{}, err
		}
		settings = *loaded
	}

	settings.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		settings.Endpoint = opts.endpoint
	}
	if flags.Changed("model") {
		settings.Model = opts.model
	}
	if flags.Changed("api-key") {
		settings.APIKey = opts.apiKey
	}
	if flags.Changed("max-steps") {
		settings.MaxSteps = opts.maxSteps
	}
	if flags.Changed("max-cost") {
		settings.MaxCost = opts.maxCost
	}
	if flags.Changed("interactive") {
		settings.Interactive = opts.interactive
	}
	if flags.Changed("workdir") {
		settings.WorkDir = opts.workdir
	}
	if flags.Changed("store") {
		settings.StorePath = opts.storePath
	}
	if opts.verbose {
		settings.LogLevel = "debug"
	}

	return settings, nil
}

// runTask executes one run command invocation.
func (a *App) runTask(cmd *cobra.Command, opts *runOptions, task string) error {
	settings, err := resolveSettings(cmd, opts)
	if err != nil {
		return err
	}

	logging.Init(logging.Config{Level: settings.LogLevel, Format: "console"})
	logging.SetLevel(settings.LogLevel)

	if err := settings.Validate(); err != nil {
		return err
	}
	if task == "" {
		return errors.New("no task specified")
	}

	provider := planner.NewOpenAIProvider(planner.OpenAIConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.Endpoint,
		Model:   settings.Model,
	})

	switch opts.mode {
	case modeReact:
		return a.runReact(cmd.Context(), provider, settings, task)
	case modePrompt:
		return a.runPrompt(cmd.Context(), provider, settings, task)
	case modeChat:
		return a.runChat(cmd.Context(), provider, settings)
	default:
		return fmt.Errorf("unknown mode %q (expected react, prompt, or chat)", opts.mode)
	}
}

// runReact drives the full think-act-observe loop.
func (a *App) runReact(ctx context.Context, provider planner.Provider, settings config.Settings, task string) error {
	executor, err := toolexec.NewBuiltinExecutor(
		toolexec.WithWorkingDir(settings.WorkDir),
	)
	if err != nil {
		return err
	}

	oracleOpts := []planner.OracleOption{
		planner.WithToolDescriptions(executor.Describe()),
	}
	if settings.SystemPrompt != "" {
		oracleOpts = append(oracleOpts, planner.WithSystemPrompt(settings.SystemPrompt))
	}
	model := planner.NewModelOracle(provider, task, oracleOpts...)

	var user oracle.User = userio.NewDenying()
	if settings.Interactive {
		user = userio.NewTerminal()
	}

	driver := application.NewDriver(model, executor, user)

	state := agent.NewState(agent.Config{
		Limits:    agent.Limits{MaxSteps: settings.MaxSteps, MaxCost: settings.MaxCost},
		ToolNames: executor.Names(),
		Headless:  !settings.Interactive,
	})

	runID := uuid.NewString()
	startTime := time.Now()

	logging.Info().
		Add(logging.RunID(runID)).
		Add(logging.Goal(task)).
		Msg("run started")

	final, runErr := driver.Run(ctx, state)
	endTime := time.Now()

	if err := a.persistRun(ctx, settings, runID, task, final, startTime, endTime); err != nil {
		logging.Error().
			Add(logging.RunID(runID)).
			Add(logging.ErrorField(err)).
			Msg("failed to persist run")
	}

	return a.reportRun(runID, final, endTime.Sub(startTime), runErr)
}

// persistRun saves the finished run when a store path is configured.
func (a *App) persistRun(ctx context.Context, settings config.Settings, runID, task string, final agent.State, start, end time.Time) error {
	if settings.StorePath == "" {
		return nil
	}

	store, err := sqlite.NewRunStore(sqlite.FileConfig(settings.StorePath))
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Save(ctx, run.NewRecord(runID, task, final, start, end))
}

// reportRun prints the outcome and maps it to the process exit status:
// a submitted answer succeeds, everything else is an error.
func (a *App) reportRun(runID string, final agent.State, elapsed time.Duration, runErr error) error {
	term := final.Termination()

	if runErr != nil {
		if errors.Is(runErr, agent.ErrBlocked) {
			return fmt.Errorf("run %s blocked: the agent requested input in a headless run (use -i to allow questions)", runID)
		}
		return runErr
	}

	if term == nil {
		return fmt.Errorf("run %s stopped without a termination", runID)
	}

	logging.Info().
		Add(logging.RunID(runID)).
		Add(logging.Termination(*term)).
		Add(logging.StepCount(final.StepCount)).
		Add(logging.Cost(final.Cost)).
		Add(logging.Duration(elapsed)).
		Msg("run finished")

	if term.Success() {
		fmt.Fprintln(a.stdout, term.Output)
		return nil
	}

	return fmt.Errorf("run %s did not submit: %s", runID, term.String())
}

// runPrompt performs a single completion without the loop.
func (a *App) runPrompt(ctx context.Context, provider planner.Provider, settings config.Settings, task string) error {
	resp, err := provider.Complete(ctx, planner.CompletionRequest{
		Messages: []planner.Message{
			{Role: "user", Content: task},
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, strings.TrimSpace(resp.Message.Content))
	return nil
}

// runChat runs an interactive chat loop over the same provider.
func (a *App) runChat(ctx context.Context, provider planner.Provider, settings config.Settings) error {
	terminal := userio.NewTerminal()
	messages := []planner.Message{}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := terminal.Prompt(ctx, "")
		if err != nil {
			// EOF ends the conversation.
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		messages = append(messages, planner.Message{Role: "user", Content: line})

		resp, err := provider.Complete(ctx, planner.CompletionRequest{Messages: messages})
		if err != nil {
			return err
		}

		messages = append(messages, resp.Message)
		fmt.Fprintln(a.stdout, strings.TrimSpace(resp.Message.Content))
	}
}
