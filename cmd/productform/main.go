package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/talkincode/productform/config"
	"github.com/talkincode/productform/internal/app"
	"github.com/talkincode/productform/internal/form"
	"github.com/talkincode/productform/internal/formapi"
	"github.com/talkincode/productform/internal/webserver"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "productform",
		Short:        "Product form to JSON generator",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")

	root.AddCommand(
		newServeCmd(&configPath),
		newRenderCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			},
		},
	)
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the product form page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return err
			}

			application := app.NewApplication(cfg)
			if err := application.Init(cfg); err != nil {
				return err
			}
			defer application.Release()

			webserver.Init(cfg)
			if err := formapi.Init(application); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := webserver.Start(ctx); err != nil {
				zap.L().Error("web server stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}
}

func newRenderCmd() *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the JSON of the empty or demonstration record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := form.NewState()
			if demo {
				st.Fill()
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), st.Output())
			return err
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "render the demonstration record")
	return cmd
}
