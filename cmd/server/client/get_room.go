package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/skywar-api/internal/handlers/battle/v1alpha1"
)

var getRoomJSON bool

var getRoomCmd = &cobra.Command{
	Use:   "get-room [room-id]",
	Short: "Show a room as the caller sees it",
	Args:  cobra.ExactArgs(1),
	RunE:  getRoom,
}

func init() {
	getRoomCmd.Flags().BoolVar(&getRoomJSON, "json", false, "Print the raw response")
}

func getRoom(_ *cobra.Command, args []string) error {
	if err := requireIdentity(); err != nil {
		return err
	}

	client, cleanup, err := createBattleClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.GetRoom(ctx, &v1alpha1.GetRoomRequest{
		Identity: identity,
		RoomID:   args[0],
	})
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	if getRoomJSON {
		return printJSON(resp)
	}

	printRoom(resp.Room)
	fmt.Println()
	for player, heads := range resp.HeadsHit {
		fmt.Printf("Heads destroyed on %s's board: %d\n", player, heads)
	}
	return nil
}
