package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agentdesk/internal/app"
	"agentdesk/internal/web"

	"github.com/spf13/cobra"
)

var openInBrowser bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the browser console without the TUI",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&openInBrowser, "open", true,
		"open the console in the default browser")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	a, err := app.New(dataDir)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := web.New(a)
	url, err := srv.Start(ctx, openInBrowser)
	if err != nil {
		return err
	}
	fmt.Printf("agentdesk console: %s (ctrl+c to stop)\n", url)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
