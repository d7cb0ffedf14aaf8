package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/skywar-api/internal/handlers/battle/v1alpha1"
)

var attackCmd = &cobra.Command{
	Use:   "attack [room-id] [cell] [cell]",
	Short: "Attack one cell, or two with a double shot",
	Long: `Attack the opponent's board. Cells are numbered 1-144 row by row. Examples:

  attack room_abc 7 --identity alice
  attack room_abc 7 8 --identity alice`,
	Args: cobra.RangeArgs(2, 3),
	RunE: attack,
}

func attack(_ *cobra.Command, args []string) error {
	if err := requireIdentity(); err != nil {
		return err
	}

	cells := make([]int, 0, len(args)-1)
	for _, arg := range args[1:] {
		cell, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid cell %q: %w", arg, err)
		}
		cells = append(cells, cell)
	}

	client, cleanup, err := createBattleClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.SubmitAttack(ctx, &v1alpha1.SubmitAttackRequest{
		Identity: identity,
		RoomID:   args[0],
		Cells:    cells,
	})
	if err != nil {
		return fmt.Errorf("failed to attack: %w", err)
	}

	printAttack("Your attack", resp.Result)
	printAttack("Opponent reply", resp.AIMove)
	fmt.Println()
	printRoom(resp.Room)
	return nil
}
