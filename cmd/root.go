package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"splitpay/internal/app"
	"splitpay/internal/config"
	"splitpay/internal/partner"
	"splitpay/internal/reconcile"
	"splitpay/internal/telemetry"
)

var (
	envFlag    string
	configFlag string

	appCtx *app.Context
	engine *reconcile.Engine
)

// Execute runs the splitpay command tree.
func Execute() error {
	rootCmd := &cobra.Command{
		Use:               "splitpay",
		Short:             "Operator CLI for the installment-credit payment partner",
		Long:              `Resolve, capture and cancel deferred/split-payment purchases against the partner API, from sandbox or production.`,
		DisableAutoGenTag: true,
		Version:           "1.0.0",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return setup()
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "sandbox", "partner environment (sandbox or production)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "partner.yaml", "partner configuration file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Display the version of splitpay",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("splitpay version 1.0.0\n")
		},
	})

	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newFinalizeCmd())
	rootCmd.AddCommand(newCaptureCmd())
	rootCmd.AddCommand(newCancelCmd())
	rootCmd.AddCommand(newBatchCmd())

	return rootCmd.Execute()
}

// setup wires the app context, partner client and engine for one command
// invocation. The transport instance is built once and shared.
func setup() error {
	ctx, err := app.NewContext("splitpay", envFlag)
	if err != nil {
		return err
	}
	appCtx = ctx

	partnerCfg, err := config.LoadPartnerConfig(configFlag)
	if err != nil {
		return err
	}

	recorder := telemetry.NewRecorder(appCtx.Environment)
	transport := partner.NewTransport(partnerCfg.HTTP, recorder)
	client := partner.NewClient(transport, partnerCfg)
	engine = reconcile.NewEngine(client)
	return nil
}
