package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/skywar-api/internal/handlers/battle/v1alpha1"
)

var forceTimeoutObserved int

var forceTimeoutCmd = &cobra.Command{
	Use:   "force-timeout [room-id]",
	Short: "Play a random move for a timed-out turn",
	Args:  cobra.ExactArgs(1),
	RunE:  forceTimeout,
}

func init() {
	forceTimeoutCmd.Flags().IntVar(&forceTimeoutObserved, "observed", -1, "Attack count seen when the turn timed out (-1 skips the check)")
}

func forceTimeout(_ *cobra.Command, args []string) error {
	client, cleanup, err := createBattleClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req := &v1alpha1.ForceTimeoutAttackRequest{RoomID: args[0]}
	if forceTimeoutObserved >= 0 {
		req.ObservedAttackCount = &forceTimeoutObserved
	}

	resp, err := client.ForceTimeoutAttack(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to force timeout move: %w", err)
	}

	if !resp.Applied {
		fmt.Printf("Nothing to do: %s\n", resp.Reason)
		return nil
	}
	printAttack("Forced move", resp.Result)
	printAttack("Opponent reply", resp.AIMove)
	return nil
}
