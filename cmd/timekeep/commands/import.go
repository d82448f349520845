package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	attendance "timekeep.com/timekeep/attendance/core"
	"timekeep.com/timekeep/infrastructure/filesystem"
	"timekeep.com/timekeep/scheduleapi"
)

var importCmd = &cobra.Command{
	Use:   "import <file|s3://bucket[/key]>",
	Short: "Bulk-import manual entries from CSV files",
	Long: `Reads CSVs of manual entries (employee_id,username,time_in,time_out[,label])
and creates pending sessions. Duplicate windows are skipped. The source is a
local file, a single S3 object, or a whole bucket (every .csv object).

Examples:
  timekeep import entries.csv
  timekeep import s3://timekeep-imports/2026-08.csv --offset 36000
  timekeep import s3://timekeep-imports`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		offset, _ := cmd.Flags().GetInt("offset")

		paths, err := resolvePaths(ctx, args[0])
		if err != nil {
			return err
		}

		db := connect()
		manager := attendance.NewManager(db, scheduleapi.NewGormProvider(db), attendance.DefaultPolicy(), attendance.LogPublisher{})

		var total attendance.ImportStats
		for _, path := range paths {
			stream, err := openSource(ctx, path)
			if err != nil {
				return err
			}

			entries, err := attendance.ParseManualEntriesCSV(stream, offset)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}

			stats, err := manager.ImportManualEntries(ctx, entries)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d rows, created %d, skipped %d, invalid %d\n",
				path, len(entries), stats.Created, stats.Skipped, stats.Errors)

			total.Created += stats.Created
			total.Skipped += stats.Skipped
			total.Errors += stats.Errors
		}

		fmt.Printf("Created %d, skipped %d duplicates, %d invalid rows\n", total.Created, total.Skipped, total.Errors)
		return nil
	},
}

// resolvePaths expands a bare bucket into one path per .csv object.
func resolvePaths(ctx context.Context, path string) ([]string, error) {
	if !strings.HasPrefix(path, "s3://") || strings.Contains(strings.TrimPrefix(path, "s3://"), "/") {
		return []string{path}, nil
	}

	bucket := strings.TrimPrefix(path, "s3://")
	keys, err := filesystem.ListFiles(ctx, bucket)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, key := range keys {
		if strings.HasSuffix(key, ".csv") {
			paths = append(paths, "s3://"+bucket+"/"+key)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .csv objects in bucket %s", bucket)
	}
	return paths, nil
}

func openSource(ctx context.Context, path string) (io.Reader, error) {
	if strings.HasPrefix(path, "s3://") {
		trimmed := strings.TrimPrefix(path, "s3://")
		parts := strings.SplitN(trimmed, "/", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid s3 path %s", path)
		}
		var buf bytes.Buffer
		if err := filesystem.ReadFile(ctx, parts[0], parts[1], &buf); err != nil {
			return nil, err
		}
		return &buf, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	return bytes.NewReader(data), nil
}

func init() {
	importCmd.Flags().Int("offset", 0, "UTC offset in seconds for naive timestamps")
}
