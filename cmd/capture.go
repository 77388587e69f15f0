package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"splitpay/internal/reconcile"
	"splitpay/internal/ui"
)

func newCaptureCmd() *cobra.Command {
	var amount float64

	cmd := &cobra.Command{
		Use:   "capture [purchase-reference]",
		Short: "Capture a favorable purchase",
		Long:  `Fetch the purchase's status and confirm funding. Capture always requests immediate confirmation.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if amount <= 0 {
				return fmt.Errorf("capture requires a positive --amount")
			}

			o := engine.Capture(context.Background(), reconcile.CaptureRequest{
				PurchaseReference: args[0],
				Sandbox:           appCtx.IsSandbox(),
				Amount:            amount,
			})
			fmt.Println(ui.FormatOutcome(appCtx.GetPrefix(), o))
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "order amount for the confirmation call")
	return cmd
}
