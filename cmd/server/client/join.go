package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/skywar-api/internal/handlers/battle/v1alpha1"
)

var joinCmd = &cobra.Command{
	Use:   "join [code] [formation-file]",
	Short: "Join an invite room by its code",
	Args:  cobra.ExactArgs(2),
	RunE:  join,
}

func join(_ *cobra.Command, args []string) error {
	if err := requireIdentity(); err != nil {
		return err
	}
	formation, err := readFormation(args[1])
	if err != nil {
		return err
	}

	client, cleanup, err := createBattleClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.JoinByCode(ctx, &v1alpha1.JoinByCodeRequest{
		Identity:  identity,
		Code:      args[0],
		Formation: formation,
	})
	if err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	if resp.Replayed {
		fmt.Println("Already seated in this room")
	}
	printRoom(resp.Room)
	return nil
}
