package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"splitpay/internal/reconcile"
	"splitpay/internal/ui"
)

func newFinalizeCmd() *cobra.Command {
	var (
		captureNow bool
		amount     float64
		openURL    string
	)

	cmd := &cobra.Command{
		Use:   "finalize [purchase-reference]",
		Short: "Finalize a purchase after the buyer's redirect",
		Long: `Resolve a purchase after the buyer returned from the partner's
authorization page. With --capture-now, a favorable purchase is confirmed
immediately; --amount funds the confirmation envelope.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if openURL != "" {
				if err := browser.OpenURL(openURL); err != nil {
					fmt.Printf("%sCould not open authorization URL: %v\n", appCtx.GetPrefix(), err)
				}
			}

			if captureNow && amount <= 0 {
				return fmt.Errorf("--capture-now requires a positive --amount")
			}

			o := engine.FinalizeRedirect(context.Background(), reconcile.FinalizeRequest{
				PurchaseReference: args[0],
				Sandbox:           appCtx.IsSandbox(),
				CaptureNow:        captureNow,
				Amount:            amount,
			})
			fmt.Println(ui.FormatOutcome(appCtx.GetPrefix(), o))
			return nil
		},
	}

	cmd.Flags().BoolVar(&captureNow, "capture-now", false, "confirm funding immediately when the purchase is favorable")
	cmd.Flags().Float64Var(&amount, "amount", 0, "order amount for the confirmation call")
	cmd.Flags().StringVar(&openURL, "open", "", "open the partner authorization URL in a browser first")
	return cmd
}
