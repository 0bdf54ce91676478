package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/simp-lee/soundmint/internal/client"
)

// newMintWaitCmd records a purchase through the mint awaiter. The transaction
// signature stands in for what a wallet would return after signing.
func newMintWaitCmd(e *env) *cobra.Command {
	var (
		signature string
		timeout   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "mint-wait <nftId>",
		Short: "Record a purchase and wait for its outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid nft id %q", args[0])
			}

			minter := client.MinterFunc(func(ctx context.Context) (string, error) {
				p, err := e.client.RecordPurchase(ctx, uint(id), client.PurchaseForm{TxSignature: signature})
				if err != nil {
					return "", err
				}
				return p.TxSignature, nil
			})

			a := client.NewMintAwaiter(timeout)
			if err := a.Start(cmd.Context(), minter); err != nil {
				return err
			}
			res, err := a.Wait(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch res.State {
			case client.MintSuccess:
				fmt.Fprintln(out, "minted:", client.SolscanTxURL(e.cfg.SolscanURL, res.TxID))
				return nil
			case client.MintTimeout:
				return fmt.Errorf("mint timed out after %s", timeout)
			default:
				return fmt.Errorf("mint failed: %w", res.Err)
			}
		},
	}
	cmd.Flags().StringVar(&signature, "tx", "", "transaction signature returned by the wallet")
	cmd.Flags().DurationVar(&timeout, "timeout", client.DefaultMintTimeout, "how long to wait for the mint")
	_ = cmd.MarkFlagRequired("tx")
	return cmd
}
