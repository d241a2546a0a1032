package config

import (
	"fmt"
	"strings"
	"time"

	"fabmon/params"
	"github.com/spf13/viper"
)

const (
	DefaultListenAddr   = ":3000"
	DefaultCronSchedule = "0 2 * * *" // nightly, 02:00 server time
	DefaultInitialDays  = 7
)

type MySQLConfig struct {
	Dsn             string `mapstructure:"dsn"`
	TablePrefix     string `mapstructure:"tablePrefix"`
	MaxIdleConns    int    `mapstructure:"maxIdleConns"`
	MaxOpenConns    int    `mapstructure:"maxOpenConns"`
	ConnMaxIdleTime int    `mapstructure:"connMaxIdleTime"`
	ConnMaxLifetime int    `mapstructure:"connMaxLifetime"`
}

type RedisConfig struct {
	URL      string `mapstructure:"url"`
	PoolSize int    `mapstructure:"poolSize"`
}

// TenantConfig identifies one upstream directory to extract from.
// DirectoryID is the upstream tenant GUID; ID is the internal label
// events are stored under.
type TenantConfig struct {
	ID           string `mapstructure:"id"`
	DirectoryID  string `mapstructure:"directoryID"`
	ClientID     string `mapstructure:"clientID"`
	ClientSecret string `mapstructure:"clientSecret"`
	Label        string `mapstructure:"label"`
}

type ExtractionConfig struct {
	CronSchedule string        `mapstructure:"cronSchedule"`
	InitialDays  int           `mapstructure:"initialDays"` // first-run bootstrap backfill depth
	DayDelay     time.Duration `mapstructure:"dayDelay"`    // pause between day windows
}

type Config struct {
	Debug        bool             `mapstructure:"debug"`
	ListenAddr   string           `mapstructure:"listenAddr"`
	AllowOrigins []string         `mapstructure:"allowOrigins"`
	MySQL        MySQLConfig      `mapstructure:"mysql"`
	Redis        RedisConfig      `mapstructure:"redis"`
	Tenants      []TenantConfig   `mapstructure:"tenants"`
	Extraction   ExtractionConfig `mapstructure:"extraction"`
}

func (c *Config) Sanitize() error {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.Extraction.CronSchedule == "" {
		c.Extraction.CronSchedule = DefaultCronSchedule
	}
	if c.Extraction.InitialDays <= 0 {
		c.Extraction.InitialDays = DefaultInitialDays
	}
	if c.Extraction.InitialDays > params.MaxBackfillDays {
		c.Extraction.InitialDays = params.MaxBackfillDays
	}
	if c.Extraction.DayDelay <= 0 {
		c.Extraction.DayDelay = params.InterDayDelay
	}
	for i, tenant := range c.Tenants {
		if tenant.ID == "" || tenant.DirectoryID == "" || tenant.ClientID == "" {
			return fmt.Errorf("tenant %d: id, directoryID and clientID are required", i)
		}
		if tenant.Label == "" {
			c.Tenants[i].Label = tenant.ID
		}
	}
	return nil
}

func LoadConfig(filename string) (*Config, error) {
	viper.SetConfigFile(filename)
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Sanitize(); err != nil {
		return nil, err
	}
	return &config, nil
}
