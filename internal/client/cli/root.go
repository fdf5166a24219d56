package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ibrathesheriff/stackrail/internal/buildinfo"
	"github.com/ibrathesheriff/stackrail/internal/client/config"
	"github.com/ibrathesheriff/stackrail/internal/client/console"
	"github.com/ibrathesheriff/stackrail/internal/client/models"
	"github.com/ibrathesheriff/stackrail/internal/logging"
)

// commander is the command surface the tree dispatches to. *App
// satisfies it; tests provide a lightweight stub.
type commander interface {
	Join(ctx context.Context) error
	Verify(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Project(ctx context.Context, opts ProjectOptions) error
	Rail(ctx context.Context, title string) error
	Add(ctx context.Context, opts AddOptions) error
	Task(ctx context.Context, opts TaskOptions) error
	List(ctx context.Context, opts ListOptions) error
	Pop(ctx context.Context) error
	Push(ctx context.Context) error
}

// Streams are the process's standard streams.
type Streams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// Factory builds the commander once configuration is known.
type Factory func(cfg *config.Config, logger logging.Logger, s Streams) commander

// DefaultFactory builds the real App.
func DefaultFactory(cfg *config.Config, logger logging.Logger, s Streams) commander {
	return NewApp(cfg, logger, s.In, s.Out, s.ErrOut)
}

// NewRootCommand builds the stackrail command tree. Configuration is loaded
// before any subcommand runs; flag conflicts are rejected by cobra before
// dispatch.
func NewRootCommand(factory Factory, s Streams) *cobra.Command {
	var (
		opts config.Options
		app  commander
	)

	root := &cobra.Command{
		Use:           "stackrail",
		Short:         "Prioritise the work that matters from your terminal",
		Long:          "stackrail keeps a scored stack of tasks and a rail of loose ideas per project,\nbacked by your StackRail account.",
		Version:       buildinfo.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(opts)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := logging.New(s.ErrOut, cfg.Verbose)
			logger.Debug(cmd.Context(), "config loaded", "state_dir", cfg.StateDir, "backend", cfg.BackendURL)
			app = factory(cfg, logger, s)
			return nil
		},
	}
	root.SetIn(s.In)
	root.SetOut(s.Out)
	root.SetErr(s.ErrOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.ConfigFile, "config", "c", "", "path to a JSON config file")
	pf.StringVar(&opts.DotenvFile, "env-file", "", "path to a .env file (default .env)")
	pf.StringVar(&opts.BackendURL, "backend-url", "", "backend base URL (overrides SUPABASE_URL)")
	pf.StringVar(&opts.StateDir, "state-dir", "", "directory for local state (default $HOME/.stackrail)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "log diagnostics to stderr")

	run := func(f func(ctx context.Context) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			return f(cmd.Context())
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "join",
			Short: "Create an account",
			Args:  cobra.NoArgs,
			RunE:  run(func(ctx context.Context) error { return app.Join(ctx) }),
		},
		&cobra.Command{
			Use:   "verify",
			Short: "Confirm your email with the 6-digit code",
			Args:  cobra.NoArgs,
			RunE:  run(func(ctx context.Context) error { return app.Verify(ctx) }),
		},
		&cobra.Command{
			Use:   "login",
			Short: "Sign in",
			Args:  cobra.NoArgs,
			RunE:  run(func(ctx context.Context) error { return app.Login(ctx) }),
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Sign out and forget the saved session",
			Args:  cobra.NoArgs,
			RunE:  run(func(ctx context.Context) error { return app.Logout(ctx) }),
		},
		newProjectCommand(func() commander { return app }),
		&cobra.Command{
			Use:   "rail <title>",
			Short: "File a loose idea on the current project's rail",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.Rail(cmd.Context(), strings.Join(args, " "))
			},
		},
		newAddCommand(func() commander { return app }),
		newTaskCommand(func() commander { return app }),
		newListCommand(func() commander { return app }),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			// Needs no configuration.
			PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
			Run: func(cmd *cobra.Command, _ []string) {
				buildinfo.PrintBuildData(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "pop",
			Short: "Start the highest-priority ready task",
			Args:  cobra.NoArgs,
			RunE:  run(func(ctx context.Context) error { return app.Pop(ctx) }),
		},
		&cobra.Command{
			Use:   "push",
			Short: "Add a task that jumps to the top of the stack",
			Args:  cobra.NoArgs,
			RunE:  run(func(ctx context.Context) error { return app.Push(ctx) }),
		},
	)
	return root
}

func newProjectCommand(app func() commander) *cobra.Command {
	var (
		opts     ProjectOptions
		switchID string
	)
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Create, list, switch or show projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("switch") {
				id, err := parseID(switchID)
				if err != nil {
					return err
				}
				opts.Switch = id
			}
			return app().Project(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.New, "new", false, "create a project and switch to it")
	f.BoolVarP(&opts.List, "list", "l", false, "list your projects")
	f.StringVar(&switchID, "switch", "", "make project `id` current")
	cmd.MarkFlagsMutuallyExclusive("new", "list", "switch")
	return cmd
}

func newAddCommand(app func() commander) *cobra.Command {
	var opts AddOptions
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a scored task to the stack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("rail") && opts.Rail == "" {
				return errors.New("--rail needs a rail item id or title")
			}
			return app().Add(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.Rail, "rail", "r", "", "promote the rail item with this `id or title`")
	f.BoolVarP(&opts.Bug, "bug", "b", false, "tag the task as a bug")
	cmd.MarkFlagsMutuallyExclusive("rail", "bug")
	return cmd
}

func newTaskCommand(app func() commander) *cobra.Command {
	var modify, del, view, roll string
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Modify, delete, view or roll a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts TaskOptions
			targets := []struct {
				flag string
				raw  string
				dst  *int64
			}{
				{"modify", modify, &opts.Modify},
				{"delete", del, &opts.Delete},
				{"view", view, &opts.View},
				{"roll", roll, &opts.Roll},
			}
			for _, t := range targets {
				if !cmd.Flags().Changed(t.flag) {
					continue
				}
				id, err := parseID(t.raw)
				if err != nil {
					return err
				}
				*t.dst = id
			}
			return app().Task(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&modify, "modify", "", "edit task `id`")
	f.StringVar(&del, "delete", "", "delete task `id`")
	f.StringVar(&view, "view", "", "show task `id`")
	f.StringVar(&roll, "roll", "", "change the status of task `id`")
	cmd.MarkFlagsMutuallyExclusive("modify", "delete", "view", "roll")
	cmd.MarkFlagsOneRequired("modify", "delete", "view", "roll")
	return cmd
}

func newListCommand(app func() commander) *cobra.Command {
	var (
		opts     ListOptions
		statuses = map[models.TaskStatus]*bool{}
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open tasks by priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for st, set := range statuses {
				if *set {
					opts.Status = &st
				}
			}
			return app().List(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&opts.All, "all", "a", false, "include completed tasks")
	f.BoolVarP(&opts.Rail, "rail", "r", false, "list rail items instead of tasks")
	names := []string{"all", "rail"}
	for _, st := range models.Statuses() {
		statuses[st] = f.Bool(st.String(), false, "only "+st.String()+" tasks")
		names = append(names, st.String())
	}
	cmd.MarkFlagsMutuallyExclusive(names...)
	return cmd
}

// Execute runs the tree and returns the process exit code.
func Execute(ctx context.Context, root *cobra.Command, args []string, errOut io.Writer) int {
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrAborted):
		return 1
	default:
		console.NewPrinter(errOut, errOut).Error("%v", err)
		return 1
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a valid id", s)
	}
	return id, nil
}
