package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/handlers/battle/v1alpha1"
)

var (
	submitMode       string
	submitDifficulty int
)

var submitFormationCmd = &cobra.Command{
	Use:   "submit-formation [formation-file]",
	Short: "Enter matchmaking with a formation",
	Long: `Enter matchmaking. Examples:

  submit-formation planes.json --identity alice --mode pvp
  submit-formation planes.json --identity alice --mode ai --difficulty 2
  submit-formation planes.json --identity alice --mode friend_invite`,
	Args: cobra.ExactArgs(1),
	RunE: submitFormation,
}

func init() {
	submitFormationCmd.Flags().StringVar(&submitMode, "mode", string(entities.ModePVP), "Room mode: ai, pvp or friend_invite")
	submitFormationCmd.Flags().IntVar(&submitDifficulty, "difficulty", 0, "AI difficulty 1-3 (ai mode only)")
}

func submitFormation(_ *cobra.Command, args []string) error {
	if err := requireIdentity(); err != nil {
		return err
	}
	formation, err := readFormation(args[0])
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

	resp, err := client.SubmitFormation(ctx, &v1alpha1.SubmitFormationRequest{
		Identity:   identity,
		Formation:  formation,
		Mode:       entities.Mode(submitMode),
		Difficulty: entities.Difficulty(submitDifficulty),
	})
	if err != nil {
		return fmt.Errorf("failed to submit formation: %w", err)
	}

	if resp.Joined {
		fmt.Println("Joined a waiting room")
	}
	for _, id := range resp.Superseded {
		fmt.Printf("Ended previous AI room %s\n", id)
	}
	printRoom(resp.Room)
	return nil
}
