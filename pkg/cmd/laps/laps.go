package laps

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/racelogtools/telemetry-pivot-go/pkg/config"
	"github.com/racelogtools/telemetry-pivot-go/pkg/ingest"
	lapRepos "github.com/racelogtools/telemetry-pivot-go/pkg/repository/lap"
)

func NewLapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "laps <file>",
		Short: "reconstructs lap boundaries from a lap-timing file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaps(cmd.Context(), args[0])
		},
	}
}

func runLaps(ctx context.Context, fileName string) error {
	f, err := os.Open(fileName)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", fileName, err)
	}
	//nolint:errcheck // read-only file
	defer f.Close()

	c := ingest.NewController(
		ingest.WithFilter(ingest.Filter{VehicleID: config.VehicleFilter}),
	)
	src := ingest.NewCSVSource(f, ingest.WithChunkSize(config.ChunkSize))
	byVehicle, err := c.Laps(ctx, src)
	if err != nil {
		return err
	}

	repo := lapRepos.NewRepository()
	for _, laps := range byVehicle {
		repo.Save(laps)
	}

	vehicleIDs := lo.Keys(byVehicle)
	sort.Strings(vehicleIDs)
	for _, vehicleID := range vehicleIDs {
		fmt.Printf("%s:\n", vehicleID)
		for _, lap := range byVehicle[vehicleID] {
			fmt.Printf("  lap %2d  %s  [%d,%d)\n",
				lap.Number, lap.FormattedTime(), lap.StartMS, lap.EndMS)
		}
	}
	stats := repo.Stats()
	fmt.Printf("%d vehicles, %d laps\n", stats.TotalVehicles, stats.TotalLaps)
	return nil
}
