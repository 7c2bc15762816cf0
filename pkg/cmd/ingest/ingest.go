package ingest

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/racelogtools/telemetry-pivot-go/log"
	"github.com/racelogtools/telemetry-pivot-go/pkg/config"
	"github.com/racelogtools/telemetry-pivot-go/pkg/ingest"
	telemetryRepos "github.com/racelogtools/telemetry-pivot-go/pkg/repository/telemetry"
	"github.com/racelogtools/telemetry-pivot-go/pkg/utils/cache/lrucache"
)

func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "reconstructs wide-format telemetry frames from a log file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context(), args[0])
		},
	}
	cmd.Flags().IntVar(&config.CacheSize,
		"cache-size",
		64,
		"max entries of the LRU telemetry cache")
	return cmd
}

func runIngest(ctx context.Context, fileName string) error {
	l := log.Default().Named("cmd.ingest")
	f, err := os.Open(fileName)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", fileName, err)
	}
	//nolint:errcheck // read-only file
	defer f.Close()

	filter := ingest.Filter{VehicleID: config.VehicleFilter}
	if config.LapFilter >= 0 {
		lap := config.LapFilter
		filter.Lap = &lap
	}
	c := ingest.NewController(
		ingest.WithMaxMatchedRows(config.MaxMatchedRows),
		ingest.WithSkipRows(config.SkipRows),
		ingest.WithFilter(filter),
		ingest.WithProgress(func(scanned int) {
			l.Info("scanning", log.Int("rows", scanned))
		}),
	)
	src := ingest.NewCSVSource(f, ingest.WithChunkSize(config.ChunkSize))
	result, err := c.Run(ctx, src)
	if err != nil {
		return err
	}

	store := lrucache.New(telemetryRepos.NewRepository(), config.CacheSize)
	store.Save(result.Frames)

	storeStats := store.Stats()
	cacheStats := store.CacheStats()
	fmt.Printf("scanned %d rows, matched %d, dropped %d\n",
		result.Scanned, result.Matched, result.Dropped)
	fmt.Printf("store: %d vehicles, %d laps, %d frames\n",
		storeStats.TotalVehicles, storeStats.TotalLaps, storeStats.TotalFrames)
	fmt.Printf("cache: %d/%d entries (%.0f%%)\n",
		cacheStats.Size, cacheStats.MaxSize, cacheStats.Utilization*100)
	return nil
}
