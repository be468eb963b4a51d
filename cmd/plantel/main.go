package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/plantel/internal/app"
	"github.com/five82/plantel/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g := &cli.Globals{}
	rootCmd := &cobra.Command{
		Use:   "plantel",
		Short: "Terminal client for the club management API",
		Long: `plantel manages the club's inventory, athletes, staff and analyses.

Run without a subcommand to open the interactive interface.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: g.ConfigPath,
				PrefsPath:  g.PrefsPath,
			})
		},
	}
	rootCmd.PersistentFlags().StringVar(&g.ConfigPath, "config", "", "config file (default ~/.config/plantel/config.toml)")
	rootCmd.PersistentFlags().StringVar(&g.PrefsPath, "prefs", "", "preferences file (default ~/.config/plantel/prefs.toml)")

	rootCmd.AddCommand(cli.LoginCmd(g))
	rootCmd.AddCommand(cli.LogoutCmd(g))
	rootCmd.AddCommand(cli.ListCmd(g))
	rootCmd.AddCommand(cli.RemoveCmd(g))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "plantel: %v\n", err)
		return 1
	}
	return 0
}
