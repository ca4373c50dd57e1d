package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/client/config"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"
)

// Set at build time with -ldflags "-X .../cli.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// New returns the passvault command tree bound to args (usually
// os.Args[1:]). The persistent flags are declared for help and validation
// only; their values are read by config.LoadConfig from the same args so
// the JSON file and environment layers apply in the usual order.
func New(args []string) *cobra.Command {
	var (
		configPath, dataDir, logLevel, logFormat string
		debounce                                 int
	)

	cmd := &cobra.Command{
		Use:           "passvault",
		Short:         "Keep credentials in a local, optionally encrypted, JSON vault.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, args)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "JSON config file, comments allowed")
	pf.StringVarP(&dataDir, "data-dir", "d", "", "application directory")
	pf.StringVarP(&logLevel, "log-level", "l", "", "debug, info, warn or error")
	pf.StringVarP(&logFormat, "log-format", "f", "", "text, json or console")
	pf.IntVarP(&debounce, "watch-debounce", "w", 0, "data file watch debounce in milliseconds")

	addVersion(cmd)
	addExport(cmd, args)
	addImport(cmd, args)
	addPath(cmd, args)

	cmd.SetArgs(args)
	return cmd
}

func newApp(cmd *cobra.Command, args []string) (*App, error) {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logging.New(cfg.LogFormat, cfg.LogLevel, cmd.ErrOrStderr())
	return NewApp(cfg, log, cmd.InOrStdin(), cmd.OutOrStdout()), nil
}

// withApp opens the vault and runs fn once.
func withApp(cmd *cobra.Command, args []string, fn func(ctx context.Context, a *App) error) error {
	a, err := newApp(cmd, args)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.Open(ctx); err != nil {
		return err
	}
	return fn(ctx, a)
}

func addVersion(topLevel *cobra.Command) {
	shortened := false
	output := "json"
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the passvault version.",
		Example: `
passvault version
passvault version -s
`,
		Run: func(cmd *cobra.Command, _ []string) {
			resp := goversion.FuncWithOutput(shortened, version, commit, date, output)
			fmt.Fprint(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().BoolVarP(&shortened, "short", "s", false, "Print just the version number.")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format. One of 'yaml' or 'json'.")

	topLevel.AddCommand(cmd)
}

func addExport(topLevel *cobra.Command, args []string) {
	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Write the vault to a file.",
		Long:  "Write the vault to a file. The copy is encrypted when the vault is.",
		Example: `
passvault export
passvault export ~/backups/vault.json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, pos []string) error {
			return withApp(cmd, args, func(ctx context.Context, a *App) error {
				return a.export(ctx, pos)
			})
		},
	}
	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command, args []string) {
	replace := false
	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Merge a vault file into the current one.",
		Long: "Merge a vault file into the current one. Groups are matched by name and " +
			"credentials already present are skipped. With --replace the file becomes the new vault.",
		Example: `
passvault import old-vault.json
passvault import --replace backup.json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, pos []string) error {
			return withApp(cmd, args, func(ctx context.Context, a *App) error {
				return a.importFile(ctx, pos[0], replace)
			})
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "replace the current data instead of merging")
	topLevel.AddCommand(cmd)
}

func addPath(topLevel *cobra.Command, args []string) {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Show or change the data file location.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, args)
			if err != nil {
				return err
			}
			return a.path(cmd.Context(), nil)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <path>",
		Short: "Move the data file to path.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, pos []string) error {
			return withApp(cmd, args, func(ctx context.Context, a *App) error {
				return a.path(ctx, []string{"set", pos[0]})
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Go back to the default data file location.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, args, func(ctx context.Context, a *App) error {
				return a.path(ctx, []string{"reset"})
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the data file location.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, args)
			if err != nil {
				return err
			}
			return a.path(cmd.Context(), nil)
		},
	})

	topLevel.AddCommand(cmd)
}
