package cli

import (
	"fmt"
	"io"

	"github.com/druarnfield/splash/internal/installer"
	"github.com/druarnfield/splash/internal/shell"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show installed and packaged game data versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			in := shell.NewInstaller(shell.Deps{
				Config:  a.cfg,
				Source:  a.source,
				Storage: a.storage,
				Prefs:   a.prefs,
				Logger:  a.logger,
			}, shell.Options{})
			st, err := in.Status()
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), a, st)
			return nil
		},
	}
}

func printStatus(w io.Writer, a *app, st installer.Status) {
	installed := st.InstalledVersion
	if installed == "" {
		installed = "(none)"
	}
	fmt.Fprintf(w, "Config:     %s\n", orNone(a.cfgPath))
	fmt.Fprintf(w, "Package:    %s (version %s)\n", a.cfg.Package.Dir, st.PackageVersion)
	fmt.Fprintf(w, "Data:       %s (version %s)\n", a.cfg.Data.Dir, installed)
	if st.UpToDate {
		fmt.Fprintln(w, "Status:     up to date")
	} else {
		fmt.Fprintln(w, "Status:     install needed")
	}

	if len(a.cfg.Settings) == 0 {
		return
	}
	fmt.Fprintln(w, "\nSettings:")
	for _, s := range a.cfg.Settings {
		mark := " "
		if a.prefs.Toggle(s.Key, s.Default) {
			mark = "x"
		}
		label := s.Label
		if label == "" {
			label = s.Key
		}
		fmt.Fprintf(w, "  [%s] %s\n", mark, label)
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
