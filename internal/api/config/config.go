package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
// .env 中的变量会先注入进程环境，HEARTH_ 前缀的环境变量可覆盖 yaml 中的同名项
func LoadConfig(paths ...string) error {
	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("HEARTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 60)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("mongo.database", "hearth")
	v.SetDefault("jwt.secret", "hearth")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("jwt.moderator_roles", []string{"ADMIN", "MODERATOR"})
	v.SetDefault("cron.dirty_recount", "0 */5 * * * *")
	v.SetDefault("cron.full_recount", "@daily")
	v.SetDefault("cron.full_batch", 500)
	v.SetDefault("metrics.enable", true)
	v.SetDefault("metrics.path", "/metrics")
}
