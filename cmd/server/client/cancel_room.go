package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/skywar-api/internal/handlers/battle/v1alpha1"
)

var cancelRoomCmd = &cobra.Command{
	Use:   "cancel-room [room-id]",
	Short: "End a room administratively",
	Args:  cobra.ExactArgs(1),
	RunE:  cancelRoom,
}

func cancelRoom(_ *cobra.Command, args []string) error {
	client, cleanup, err := createBattleClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.CancelRoom(ctx, &v1alpha1.CancelRoomRequest{RoomID: args[0]})
	if err != nil {
		return fmt.Errorf("failed to cancel room: %w", err)
	}

	if resp.Cancelled {
		fmt.Printf("Room %s ended (%s)\n", args[0], resp.EndReason)
	} else {
		fmt.Printf("Room %s had already ended (%s)\n", args[0], resp.EndReason)
	}
	return nil
}
