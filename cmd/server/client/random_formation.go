package client

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/skywar-api/internal/handlers/battle/v1alpha1"
)

var randomFormationOut string

var randomFormationCmd = &cobra.Command{
	Use:   "random-formation",
	Short: "Draw a random formation",
	Long: `Draw a random valid formation. With --out the submittable shapes are written
to a file that submit-formation and join accept.`,
	Args: cobra.NoArgs,
	RunE: randomFormation,
}

func init() {
	randomFormationCmd.Flags().StringVar(&randomFormationOut, "out", "", "Write the formation JSON to this file")
}

func randomFormation(_ *cobra.Command, _ []string) error {
	client, cleanup, err := createBattleClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.RandomFormation(ctx, &v1alpha1.RandomFormationRequest{})
	if err != nil {
		return fmt.Errorf("failed to draw formation: %w", err)
	}

	fmt.Printf("Formation group %d\n", resp.GroupID)
	if resp.Group != nil {
		for _, plane := range resp.Group.Planes {
			fmt.Printf("  plane %d: head %d, direction %d, body %v\n", plane.PlaneID, plane.Head, plane.Direction, plane.Body)
		}
	}

	if randomFormationOut == "" {
		return nil
	}
	data, err := json.MarshalIndent(resp.Formation, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode formation: %w", err)
	}
	if err := os.WriteFile(randomFormationOut, data, 0o600); err != nil {
		return fmt.Errorf("failed to write formation: %w", err)
	}
	fmt.Printf("Formation written to %s\n", randomFormationOut)
	return nil
}
