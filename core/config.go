package core

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	LogConfig struct {
		Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
		File  string `mapstructure:"file"`
	}

	// RulesConfig holds the registration rules. Times are HH:MM.
	RulesConfig struct {
		MinCredits      int    `mapstructure:"min_credits" validate:"gte=0"`
		MaxCredits      int    `mapstructure:"max_credits" validate:"gtefield=MinCredits"`
		DefaultCapacity int    `mapstructure:"default_capacity" validate:"gt=0"`
		DefaultCredits  int    `mapstructure:"default_credits" validate:"gt=0"`
		DayStart        string `mapstructure:"day_start" validate:"required,clock"`
		DayEnd          string `mapstructure:"day_end" validate:"required,clock"`
	}

	Config struct {
		Env          string      `mapstructure:"env"`
		Debug        bool        `mapstructure:"debug"`
		TestMode     bool        `mapstructure:"test_mode"`
		AppName      string      `mapstructure:"app_name" validate:"required"`
		Build        string      `mapstructure:"build"`
		DataDir      string      `mapstructure:"data_dir" validate:"required"`
		SeedCatalog  bool        `mapstructure:"seed_catalog"`
		RollbarToken string      `mapstructure:"rollbar_token"`
		Log          LogConfig   `mapstructure:"log"`
		Rules        RulesConfig `mapstructure:"rules"`
	}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", true)
	v.SetDefault("app_name", "Registrar")
	v.SetDefault("build", "dev")
	v.SetDefault("data_dir", "data")
	v.SetDefault("seed_catalog", true)
	v.SetDefault("rollbar_token", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("rules.min_credits", 9)
	v.SetDefault("rules.max_credits", 18)
	v.SetDefault("rules.default_capacity", 30)
	v.SetDefault("rules.default_credits", 3)
	v.SetDefault("rules.day_start", "08:00")
	v.SetDefault("rules.day_end", "17:50")
}

// NewConfig reads the configuration from (in order of precedence) REGISTRAR_* environment
// variables, config/.env.<env>, an optional registrar.yaml and the defaults.
func NewConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("test_mode", true)
	case "PROD":
		v.SetDefault("debug", false)
	}
	v.SetDefault("env", env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}

	v.SetConfigName("registrar")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "registrar"))
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	v.SetEnvPrefix("REGISTRAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Config) Validate() error {
	if err := Validate.Struct(c); err != nil {
		return errors.Wrap(err, "config validation failed")
	}
	return nil
}

// DataFile returns the path of name inside the data directory.
func (c *Config) DataFile(name string) string {
	return filepath.Join(c.DataDir, name)
}
