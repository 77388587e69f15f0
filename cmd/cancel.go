package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"splitpay/internal/partner"
	"splitpay/internal/reconcile"
	"splitpay/internal/ui"
)

func newCancelCmd() *cobra.Command {
	var (
		amount float64
		fraud  bool
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "cancel [purchase-reference]",
		Short: "Cancel or refund a purchase",
		Long: `Probe the purchase's status, decide whether a monetary refund is
required (funded purchases only) and send the cancel/refund request.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if amount <= 0 {
				return fmt.Errorf("cancel requires a positive --amount")
			}

			if !yes {
				ok, err := ui.ConfirmCancellation(args[0], fraud)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Printf("%sCancellation aborted\n", appCtx.GetPrefix())
					return nil
				}
			}

			reasonCode := partner.ReasonCancellation
			if fraud {
				reasonCode = partner.ReasonFraud
			}

			o := engine.Cancel(context.Background(), reconcile.CancelRequest{
				PurchaseReference: args[0],
				Sandbox:           appCtx.IsSandbox(),
				Amount:            amount,
				ReasonCode:        reasonCode,
			})
			fmt.Println(ui.FormatOutcome(appCtx.GetPrefix(), o))
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "cancellation amount")
	cmd.Flags().BoolVar(&fraud, "fraud", false, "cancel with the fraud reason code")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the interactive confirmation")
	return cmd
}
