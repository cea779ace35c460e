// Package config provides YAML-based configuration loading for Laneyard.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Supported NCR workflows. Exactly one is active per deployment.
const (
	WorkflowReview        = "review"
	WorkflowInvestigation = "investigation"
)

// Config is the top-level Laneyard configuration, loaded from laneyard.yaml.
type Config struct {
	OrganizationID uint           `yaml:"organization_id"`
	Plant          PlantConfig    `yaml:"plant"`
	Database       DatabaseConfig `yaml:"database"`
	HTTP           HTTPConfig     `yaml:"http"`
	Calendar       CalendarConfig `yaml:"calendar"`
	NCR            NCRConfig      `yaml:"ncr"`
	Lanes          []LaneConfig   `yaml:"lanes"`
	Alerts         AlertsConfig   `yaml:"alerts"`
}

// PlantConfig identifies the plant this deployment schedules.
type PlantConfig struct {
	ID   uint   `yaml:"id"`
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// DatabaseConfig holds connection settings. MySQL is used in production;
// SQLite for single-user installs.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// CalendarConfig controls calendar windows and colouring thresholds
// (utilization percentages).
type CalendarConfig struct {
	Days                int             `yaml:"days"`
	WarningThreshold    decimal.Decimal `yaml:"warning_threshold"`
	OverbookedThreshold decimal.Decimal `yaml:"overbooked_threshold"`
}

// NCRConfig selects the NCR status workflow.
type NCRConfig struct {
	Workflow string `yaml:"workflow"`
}

// LaneConfig seeds a lane on db init. Capacity is a decimal string.
type LaneConfig struct {
	Code           string `yaml:"code"`
	Name           string `yaml:"name"`
	CapacityPerDay string `yaml:"capacity_per_day"`
	Active         *bool  `yaml:"active"`
}

// AlertsConfig configures the overbooking digest.
type AlertsConfig struct {
	Schedule    string        `yaml:"schedule"`
	HorizonDays int           `yaml:"horizon_days"`
	Slack       SlackConfig   `yaml:"slack"`
	Discord     DiscordConfig `yaml:"discord"`
}

// SlackConfig holds Slack bot credentials. Tokens may reference environment
// variables, e.g. "${SLACK_BOT_TOKEN}".
type SlackConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// DiscordConfig holds Discord bot credentials.
type DiscordConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// Enabled reports whether Slack delivery is configured.
func (s SlackConfig) Enabled() bool { return s.BotToken != "" && s.ChannelID != "" }

// Enabled reports whether Discord delivery is configured.
func (d DiscordConfig) Enabled() bool { return d.BotToken != "" && d.ChannelID != "" }

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMySQL
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.User == "" {
		c.Database.User = "root"
	}
	if c.Database.Name == "" {
		c.Database.Name = "laneyard"
		if c.Plant.Code != "" {
			c.Database.Name = "laneyard_" + strings.ToLower(c.Plant.Code)
		}
	}
	if c.Database.Path == "" {
		c.Database.Path = "laneyard.db"
	}
	c.Database.Password = os.ExpandEnv(c.Database.Password)

	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.Calendar.Days == 0 {
		c.Calendar.Days = 7
	}
	if c.Calendar.WarningThreshold.IsZero() {
		c.Calendar.WarningThreshold = decimal.NewFromInt(80)
	}
	if c.Calendar.OverbookedThreshold.IsZero() {
		c.Calendar.OverbookedThreshold = decimal.NewFromInt(100)
	}
	if c.NCR.Workflow == "" {
		c.NCR.Workflow = WorkflowReview
	}
	if c.Alerts.Schedule == "" {
		c.Alerts.Schedule = "0 6 * * *"
	}
	if c.Alerts.HorizonDays == 0 {
		c.Alerts.HorizonDays = 14
	}
	c.Alerts.Slack.BotToken = os.ExpandEnv(c.Alerts.Slack.BotToken)
	c.Alerts.Discord.BotToken = os.ExpandEnv(c.Alerts.Discord.BotToken)
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Plant.Code == "" {
		errs = append(errs, "plant.code is required")
	}
	switch c.Database.Driver {
	case DriverMySQL, DriverSQLite:
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q is not one of mysql, sqlite", c.Database.Driver))
	}
	if c.Calendar.Days < 1 || c.Calendar.Days > 366 {
		errs = append(errs, "calendar.days must be between 1 and 366")
	}
	if c.Calendar.WarningThreshold.IsNegative() {
		errs = append(errs, "calendar.warning_threshold must not be negative")
	}
	if c.Calendar.WarningThreshold.GreaterThan(c.Calendar.OverbookedThreshold) {
		errs = append(errs, "calendar.warning_threshold must not exceed calendar.overbooked_threshold")
	}
	switch c.NCR.Workflow {
	case WorkflowReview, WorkflowInvestigation:
	default:
		errs = append(errs, fmt.Sprintf("ncr.workflow %q is not one of review, investigation", c.NCR.Workflow))
	}
	seen := make(map[string]bool)
	for i, l := range c.Lanes {
		if l.Code == "" {
			errs = append(errs, fmt.Sprintf("lanes[%d].code is required", i))
		} else if seen[l.Code] {
			errs = append(errs, fmt.Sprintf("lanes[%d].code %q is duplicated", i, l.Code))
		}
		seen[l.Code] = true
		capacity, err := decimal.NewFromString(l.CapacityPerDay)
		if err != nil {
			errs = append(errs, fmt.Sprintf("lanes[%d].capacity_per_day %q is not a decimal", i, l.CapacityPerDay))
		} else if capacity.IsNegative() {
			errs = append(errs, fmt.Sprintf("lanes[%d].capacity_per_day must not be negative", i))
		}
	}
	if c.Alerts.HorizonDays < 1 {
		errs = append(errs, "alerts.horizon_days must be positive")
	}
	if _, err := cron.ParseStandard(c.Alerts.Schedule); err != nil {
		errs = append(errs, fmt.Sprintf("alerts.schedule %q: %v", c.Alerts.Schedule, err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Thresholds returns the calendar thresholds.
func (c CalendarConfig) Thresholds() (warning, overbooked decimal.Decimal) {
	return c.WarningThreshold, c.OverbookedThreshold
}
