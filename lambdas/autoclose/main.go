package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"gorm.io/gorm"

	attendance "timekeep.com/timekeep/attendance/core"
	"timekeep.com/timekeep/core"
	"timekeep.com/timekeep/infrastructure/communication"
	"timekeep.com/timekeep/infrastructure/devops"
	"timekeep.com/timekeep/scheduleapi"
)

// SweepEvent selects which tenant schemas to sweep. With no databases
// given, every non-system schema on the pool is swept.
type SweepEvent struct {
	Databases *[]string `json:"databases"`
	DryRun    bool      `json:"dryRun"`
}

type SweepStats struct {
	Stale  int `json:"stale"`
	Closed int `json:"closed"`
}

// Sweep force-stops sessions that have been open past the policy cap in
// each target schema. Runs on a schedule; an individual tenant failing
// never blocks the rest.
func Sweep(ctx context.Context, event SweepEvent) (map[string]SweepStats, error) {
	cfg, err := devops.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dm, err := core.New(cfg.DSN, cfg.MaxConnections)
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	dm.LogLevel = core.LogLevelError
	defer dm.Close()

	var targets []string
	if event.Databases == nil {
		targets, err = dm.GetAllDatabases(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list databases: %w", err)
		}
	} else {
		targets = *event.Databases
	}

	var notifier *communication.Slack
	if token := os.Getenv("SLACK_BOT_TOKEN"); token != "" {
		notifier = communication.NewSlack(token, communication.SlackOption{
			InfoChannelID:  cfg.Notifications.SlackInfoChannel,
			ErrorChannelID: cfg.Notifications.SlackErrorChannel,
		})
	}

	now := time.Now()
	results := make(map[string]SweepStats)
	for _, dbName := range targets {
		fmt.Printf("[INFO] Sweeping schema: %s\n", dbName)
		err := dm.Exec(ctx, dbName, func(db *gorm.DB) error {
			manager := attendance.NewManager(db, scheduleapi.NewGormProvider(db), cfg.Policy, attendance.LogPublisher{})

			stale, err := manager.Store().StaleOpen(ctx, now.Add(-cfg.Policy.MaxShiftDuration()))
			if err != nil {
				return err
			}
			stats := SweepStats{Stale: len(stale)}

			if !event.DryRun {
				closed, err := manager.AutoCloseStale(ctx, now)
				if err != nil {
					return err
				}
				stats.Closed = closed
			}

			results[dbName] = stats
			return nil
		})
		if err != nil {
			fmt.Printf("[ERROR] failed to sweep schema %s: %v\n", dbName, err)
			if notifier != nil {
				_ = notifier.Error(fmt.Sprintf("auto-close sweep failed for %s: %v", dbName, err))
			}
			continue
		}
	}

	return results, nil
}

func HandleRequest(ctx context.Context, event SweepEvent) (map[string]SweepStats, error) {
	eventJson, _ := json.Marshal(event)
	fmt.Printf("[INFO] Event: %s\n", string(eventJson))
	return Sweep(ctx, event)
}

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(HandleRequest)
	} else {
		results, err := Sweep(context.Background(), SweepEvent{DryRun: true})
		if err != nil {
			fmt.Printf("[ERROR] %v\n", err)
			os.Exit(1)
		}
		resJson, _ := json.MarshalIndent(results, "", "  ")
		fmt.Printf("[SUCCESS] Results:\n%s\n", string(resJson))
	}
}
