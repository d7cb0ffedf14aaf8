package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/skywar-api/internal/handlers/battle/v1alpha1"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill [room-id]",
	Short: "Seat an AI opponent in a waiting room",
	Args:  cobra.ExactArgs(1),
	RunE:  backfill,
}

func backfill(_ *cobra.Command, args []string) error {
	client, cleanup, err := createBattleClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.BackfillAIOpponent(ctx, &v1alpha1.BackfillAIOpponentRequest{RoomID: args[0]})
	if err != nil {
		return fmt.Errorf("failed to backfill room: %w", err)
	}

	switch {
	case resp.Filled:
		fmt.Printf("Seated %s after %d attempt(s)\n", resp.AIPlayerID, resp.Attempts)
	case resp.Ended:
		fmt.Printf("No AI available after %d attempt(s), room ended\n", resp.Attempts)
	default:
		fmt.Println("Room no longer needs an opponent")
	}
	return nil
}
