package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdziat/apigen"
	"github.com/jdziat/apigen/pkg/config"
	"github.com/jdziat/apigen/pkg/httpapi"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

type globalFlags struct {
	configPath string
	apiRoot    string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "apigend",
		Short:         "Dispatch API calls to versioned modules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to YAML config file")
	root.PersistentFlags().StringVar(&flags.apiRoot, "api-root", "", "directory holding v{N}/ module trees (overrides config and $"+config.EnvAPIRoot+")")

	root.AddCommand(newServeCmd(flags), newCallCmd(flags), newVersionCmd())
	return root
}

// loadApp reads the configuration, applies flag overrides and wires the app.
func loadApp(flags *globalFlags, stderr io.Writer, override func(*apigen.Config)) (*apigen.App, error) {
	cfg, err := apigen.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.apiRoot != "" {
		cfg.APIRoot = flags.apiRoot
	}
	if override != nil {
		override(cfg)
	}
	return apigen.New(cfg, apigen.WithLogger(cfg.NewLogger(stderr)))
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr(), func(cfg *apigen.Config) {
				if listen != "" {
					cfg.Listen = listen
				}
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, app)
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")
	return cmd
}

func serve(ctx context.Context, app *apigen.App) error {
	addr := app.Config().Listen
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	statsCtx, cancelStats := context.WithCancel(context.Background())
	statsDone := make(chan struct{})
	go func() {
		app.StartStats(statsCtx)
		close(statsDone)
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		err = srv.Shutdown(shutdownCtx)
		cancel()
	}

	cancelStats()
	<-statsDone

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func newCallCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "call FORMAT VERSION [MODULE [METHOD]]",
		Short: "Dispatch one call and print the response",
		Args:  cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr(), nil)
			if err != nil {
				return err
			}

			v, err := httpapi.ParseVersion(args[1])
			if err != nil {
				return err
			}
			req := apigen.Request{Format: args[0], Version: v}
			if len(args) > 2 {
				req.Module = args[2]
			}
			if len(args) > 3 {
				req.Method = args[3]
			}

			resp, err := app.Dispatcher().Dispatch(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("%s: %w", apigen.ErrorCode(err), err)
			}
			_, err = cmd.OutOrStdout().Write(resp.Body)
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "apigend %s\n", version)
		},
	}
}
