// Package client provides test commands for the skywar battle service
package client

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/KirkDiggler/skywar-api/internal/entities"
	"github.com/KirkDiggler/skywar-api/internal/handlers/battle/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
	identity   string
)

// ClientCmd is the root command for all client test commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Test client commands for the skywar battle service",
	Long:  `Client commands play against a running server by making real gRPC requests.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	ClientCmd.PersistentFlags().StringVar(&identity, "identity", "", "Authenticated player identity")

	// Matchmaking
	ClientCmd.AddCommand(randomFormationCmd)
	ClientCmd.AddCommand(submitFormationCmd)
	ClientCmd.AddCommand(joinCmd)
	ClientCmd.AddCommand(backfillCmd)

	// Battle
	ClientCmd.AddCommand(attackCmd)
	ClientCmd.AddCommand(getRoomCmd)
	ClientCmd.AddCommand(forceTimeoutCmd)
	ClientCmd.AddCommand(cancelRoomCmd)
}

// createBattleClient creates a battle service client
func createBattleClient() (v1alpha1.BattleServiceClient, func(), error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	return v1alpha1.NewBattleServiceClient(conn), cleanup, nil
}

func requireIdentity() error {
	if identity == "" {
		return fmt.Errorf("--identity is required")
	}
	return nil
}

// readFormation loads a formation from a JSON file, as printed by random-formation
func readFormation(path string) (entities.Formation, error) {
	var formation entities.Formation

	data, err := os.ReadFile(path)
	if err != nil {
		return formation, fmt.Errorf("failed to read formation file: %w", err)
	}
	if err := json.Unmarshal(data, &formation); err != nil {
		return formation, fmt.Errorf("failed to parse formation file: %w", err)
	}
	return formation, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

var cellGlyphs = map[entities.CellState]string{
	entities.CellEmpty:   ".",
	entities.CellHeadHit: "X",
	entities.CellBodyHit: "o",
	entities.CellMiss:    "-",
	entities.CellDodged:  "S",
}

// printBoard renders a board as a 12x12 grid
func printBoard(title string, board entities.Board) {
	fmt.Printf("\n%s\n", title)
	for row := 0; row < entities.BoardSize; row++ {
		for col := 0; col < entities.BoardSize; col++ {
			glyph, ok := cellGlyphs[board.State(row*entities.BoardSize+col+1)]
			if !ok {
				glyph = "?"
			}
			fmt.Printf("%s ", glyph)
		}
		fmt.Println()
	}
}

func printRoom(room *entities.Room) {
	if room == nil {
		return
	}

	fmt.Printf("Room %s (code %s)\n", room.ID, room.Code)
	fmt.Printf("  Mode: %s  Status: %s  Attacks: %d\n", room.Mode, room.Status, room.AttackCount)
	if room.CurrentPlayer != "" {
		fmt.Printf("  Turn: %s\n", room.CurrentPlayer)
	}
	if room.Winner != "" {
		fmt.Printf("  Winner: %s\n", room.Winner)
	}
	if room.EndReason != "" {
		fmt.Printf("  End reason: %s\n", room.EndReason)
	}
	for _, p := range room.Players {
		printBoard(fmt.Sprintf("%s (%s, %s)", p.ID, p.Role, p.Kind), p.Board)
	}
}

func printAttack(label string, result *v1alpha1.AttackResult) {
	if result == nil {
		return
	}

	fmt.Printf("\n%s: %s -> %s\n", label, result.Attacker, result.Defender)
	for _, cell := range result.Cells {
		fmt.Printf("  cell %d: %s\n", cell.Cell, cellGlyphs[cell.State])
	}
	if result.ShieldUsed != "" {
		fmt.Printf("  dodged by %s\n", result.ShieldUsed)
	}
	for _, event := range result.Events {
		fmt.Printf("  bonus: %s on cell %d\n", event.Type, event.Cell)
	}
	fmt.Printf("  heads destroyed: %d/%d\n", result.HeadsHit, entities.HeadsToWin)
	if result.Ended {
		fmt.Printf("  game over, winner %s\n", result.Winner)
	}
}
