package bootstrap

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort       string        `mapstructure:"SERVER_PORT"`
	RedisUrl         string        `mapstructure:"REDIS_URL"`
	MongoUri         string        `mapstructure:"MONGO_URI"`
	MongoDatabase    string        `mapstructure:"MONGO_DATABASE"`
	IsLocalCors      bool          `mapstructure:"LOCAL_CORS"`
	PageLimitTasks   int           `mapstructure:"PAGE_LIMIT_TASKS"`
	DefaultBoardSize int           `mapstructure:"DEFAULT_BOARD_SIZE"`
	HistoryLimit     int           `mapstructure:"HISTORY_LIMIT"`
	RecordTTL        time.Duration `mapstructure:"RECORD_TTL"`
}

func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "tsumego")
	v.SetDefault("LOCAL_CORS", false)
	v.SetDefault("PAGE_LIMIT_TASKS", 20)
	v.SetDefault("DEFAULT_BOARD_SIZE", 19)
	v.SetDefault("HISTORY_LIMIT", 0)
	v.SetDefault("RECORD_TTL", 24*time.Hour)
	v.AutomaticEnv()

	v.SetConfigFile(cfgPath)
	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}
	if cfg.PageLimitTasks <= 0 {
		cfg.PageLimitTasks = 20
	}

	return &cfg, nil
}
