package devops

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"timekeep.com/timekeep/attendance/core"
)

// AppConfig is the deployable configuration: the database DSN, the schedule
// service endpoint, notification settings and the attendance policy knobs.
// Production reads it from the SSM parameter store; local development from a
// YAML file next to a .env.
type AppConfig struct {
	DSN              string      `yaml:"dsn"`
	MaxConnections   int         `yaml:"maxConnections"`
	ScheduleAPIURL   string      `yaml:"scheduleApiUrl"`
	ScheduleAPIToken string      `yaml:"scheduleApiToken"`
	SigningSecret    string      `yaml:"signingSecret"`
	Notifications    Notify      `yaml:"notifications"`
	Policy           core.Policy `yaml:"policy"`
}

type Notify struct {
	SlackInfoChannel  string `yaml:"slackInfoChannel"`
	SlackErrorChannel string `yaml:"slackErrorChannel"`
	EmailFrom         string `yaml:"emailFrom"`
}

var (
	once    sync.Once
	loaded  *AppConfig
	loadErr error
)

const parameterName = "timekeep-config"

// Load resolves the configuration once per process. Order: explicit file via
// TIMEKEEP_CONFIG, then SSM. Environment variables override DSN and secrets
// either way; a .env file is honoured for local runs.
func Load(ctx context.Context) (*AppConfig, error) {
	once.Do(func() {
		_ = godotenv.Load()

		var raw []byte
		if path := os.Getenv("TIMEKEEP_CONFIG"); path != "" {
			raw, loadErr = os.ReadFile(path)
			if loadErr != nil {
				loadErr = fmt.Errorf("read config file %s: %w", path, loadErr)
				return
			}
		} else {
			raw, loadErr = fetchParameter(ctx)
			if loadErr != nil {
				return
			}
		}

		cfg := defaults()
		if loadErr = yaml.Unmarshal(raw, cfg); loadErr != nil {
			loadErr = fmt.Errorf("unmarshal config: %w", loadErr)
			return
		}
		applyEnvOverrides(cfg)
		loaded = cfg
	})

	return loaded, loadErr
}

func defaults() *AppConfig {
	return &AppConfig{
		MaxConnections: 10,
		Policy:         core.DefaultPolicy(),
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if dsn := os.Getenv("DSN"); dsn != "" {
		cfg.DSN = dsn
	}
	if secret := os.Getenv("TIMEKEEP_SIGNING_SECRET"); secret != "" {
		cfg.SigningSecret = secret
	}
	if url := os.Getenv("SCHEDULE_API_URL"); url != "" {
		cfg.ScheduleAPIURL = url
	}
	if token := os.Getenv("SCHEDULE_API_TOKEN"); token != "" {
		cfg.ScheduleAPIToken = token
	}
}

func fetchParameter(ctx context.Context) ([]byte, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := ssm.NewFromConfig(awsCfg)

	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(parameterName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get parameter %s: %w", parameterName, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return nil, fmt.Errorf("parameter %s is empty", parameterName)
	}

	return []byte(*out.Parameter.Value), nil
}
