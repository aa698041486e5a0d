// Package service is the commentboard command line: the HTTP server, store
// administration and a client for a running board.
package service

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"commentboard/app/config"
	"commentboard/app/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is reported by the version command.
const Version = "1.0.0"

type cli struct {
	configPath string
	envFiles   []string

	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger
}

// Execute runs the command line with args and returns the exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(os.Stdin)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCommand builds the full command tree.
func NewRootCommand() *cobra.Command {
	c := &cli{v: config.New()}

	root := &cobra.Command{
		Use:           "commentboard",
		Short:         "A comment board with replies, served over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default ./commentboard.{toml,yaml,json})")
	flags.StringSliceVar(&c.envFiles, "env-file", []string{".env"}, "dotenv files to load before reading the environment")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("store-driver", config.DriverJSON, "store backend (json or badger)")
	flags.String("store-path", "data/comments.json", "JSON store file")
	flags.String("badger-dir", "data/badger", "badger store directory")
	_ = c.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = c.v.BindPFlag("store.driver", flags.Lookup("store-driver"))
	_ = c.v.BindPFlag("store.path", flags.Lookup("store-path"))
	_ = c.v.BindPFlag("store.badger_dir", flags.Lookup("badger-dir"))

	root.AddCommand(
		c.newServeCommand(),
		c.newInitCommand(),
		c.newCleanCommand(),
		c.newBackupCommand(),
		c.newRestoreCommand(),
		c.newCommentsCommand(),
		newVersionCommand(),
	)
	return root
}

func (c *cli) load(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(c.envFiles...); err != nil {
		return err
	}
	if err := config.ReadFile(c.v, c.configPath); err != nil {
		return err
	}
	cfg, err := config.Load(c.v)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logging.NewLogger(cmd.ErrOrStderr(), logging.ParseLevel(cfg.Log.Level))
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "commentboard version %s\n", Version)
		},
	}
}
