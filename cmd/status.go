package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"splitpay/internal/reconcile"
	"splitpay/internal/ui"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [purchase-reference]",
		Short: "Resolve the current outcome of a purchase",
		Long: `Fetch the purchase's status from the partner and resolve it into one
canonical outcome, without issuing a confirmation call.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			o := engine.ResolveExpiredSession(context.Background(), reconcile.FinalizeRequest{
				PurchaseReference: args[0],
				Sandbox:           appCtx.IsSandbox(),
			})
			fmt.Println(ui.FormatOutcome(appCtx.GetPrefix(), o))
		},
	}
}
