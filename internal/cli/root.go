package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagVerbose bool
	flagPlain   bool
	flagForce   bool
	flagDryRun  bool
)

func newRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "splash",
		Short: "Game launcher shell",
		Long: "splash installs the game data bundled with the game into writable storage, " +
			"starts the game engine and answers the engine's dialog requests while it runs.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, launchOptions{})
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to splash.toml")
	pf.BoolVar(&flagVerbose, "verbose", false, "Show detailed log output")
	pf.BoolVar(&flagPlain, "plain", false, "Use plain line-based prompts instead of the full-screen UI")
	pf.String("data-dir", "", "Writable directory game data is installed into")
	pf.String("package-dir", "", "Directory holding the bundled game data")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newVersionCmd(version))
	cmd.AddCommand(newInstallCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print splash version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "splash", version)
		},
	}
}

func newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the bundled game data without starting the game",
		Long: "Copy the bundled game data into writable storage if the installed version differs " +
			"from the package version. Preserved folders and files are left alone.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, launchOptions{
				installOnly: true,
				force:       flagForce,
				dryRun:      flagDryRun,
			})
		},
	}
	cmd.Flags().BoolVar(&flagForce, "force", false, "Reinstall even if the installed version is current")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Show what would happen without doing it")
	return cmd
}

func Execute(version string) error {
	return newRootCmd(version).Execute()
}
