package main

import (
	"context"
	"encoding/base64"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	attendance "timekeep.com/timekeep/attendance/core"
	"timekeep.com/timekeep/attendance/web/handlers"
	"timekeep.com/timekeep/core"
	"timekeep.com/timekeep/infrastructure/communication"
	"timekeep.com/timekeep/infrastructure/devops"
	"timekeep.com/timekeep/scheduleapi"
	"timekeep.com/timekeep/web/middlewares"
)

func main() {
	ctx := context.Background()

	cfg, err := devops.Load(ctx)
	if err != nil {
		log.Fatal(err)
	}

	dm, err := core.New(cfg.DSN, cfg.MaxConnections)
	if err != nil {
		log.Fatal(err)
	}
	defer dm.Close()

	jwtSecret, err := base64.StdEncoding.DecodeString(cfg.SigningSecret)
	if err != nil {
		log.Fatal("Failed to decode JWT secret:", err)
	}

	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	protected := r.Group("/api/timekeep/v1.0")
	protected.Use(middlewares.Authentication(jwtSecret))
	handlers.Register(protected, dm, cfg.Policy, scheduleFactory(cfg), publisher(dm, cfg))

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8090"
	}
	r.Run(addr)
}

// scheduleFactory picks the schedule source: the hosted rostering API when
// configured, the local work_schedules replica otherwise.
func scheduleFactory(cfg *devops.AppConfig) handlers.ProviderFactory {
	if cfg.ScheduleAPIURL != "" {
		client := scheduleapi.NewClient(cfg.ScheduleAPIURL, cfg.ScheduleAPIToken)
		return func(*gorm.DB) scheduleapi.Provider { return client }
	}
	return func(db *gorm.DB) scheduleapi.Provider { return scheduleapi.NewGormProvider(db) }
}

func publisher(dm *core.DatabaseManager, cfg *devops.AppConfig) attendance.Publisher {
	if os.Getenv("SLACK_BOT_TOKEN") == "" && cfg.Notifications.EmailFrom == "" {
		return attendance.LogPublisher{}
	}

	sink := &communication.EventSink{
		EmailFrom: cfg.Notifications.EmailFrom,
	}
	if token := os.Getenv("SLACK_BOT_TOKEN"); token != "" {
		sink.Slack = communication.NewSlack(token, communication.SlackOption{
			InfoChannelID:  cfg.Notifications.SlackInfoChannel,
			ErrorChannelID: cfg.Notifications.SlackErrorChannel,
		})
	}

	// Review emails resolve addresses against the default schema; tenants
	// without one fall back to Slack only.
	schema := os.Getenv("TIMEKEEP_SCHEMA")
	if schema == "" {
		schema = "localhost"
	}
	sink.LookupEmail = func(ctx context.Context, employeeID uint) (string, error) {
		var email string
		err := dm.Exec(ctx, schema, func(db *gorm.DB) error {
			var err error
			email, err = core.EmployeeEmail(db, employeeID)
			return err
		})
		return email, err
	}

	return sink
}
