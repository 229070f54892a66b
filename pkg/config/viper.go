// Package config is responsible for initializing the application's
// configuration. It uses the Viper library to read settings from a config
// file and environment variables, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kpopnet/crawler/internal/logging"
)

// InitConfig initializes the application's configuration using Viper. It
// sets defaults, defines configuration search paths, and enables reading
// from environment variables. Designed to be called once at startup.
func InitConfig() {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.kpopnet")

	viper.SetDefault("crawler.start_url", "https://selca.kastden.org/noona/search/?pt=kpop")
	viper.SetDefault("crawler.allowed_domains", []string{"selca.kastden.org"})
	viper.SetDefault("crawler.user_agent", "kpopnet-crawler/1.0 (+https://github.com/kpopnet)")
	viper.SetDefault("crawler.concurrency", 8)
	viper.SetDefault("crawler.delay", "500ms")
	viper.SetDefault("crawler.request_timeout", "15s")
	viper.SetDefault("crawler.max_depth", 0)

	viper.SetDefault("output.json", "kpopnet.json")
	viper.SetDefault("output.min_json", "kpopnet.min.json")
	viper.SetDefault("output.thumb_dir", "thumb")
	viper.SetDefault("output.thumb_base_url", "https://up.kpop.re/net")

	viper.SetDefault("overrides.path", "overrides.json")

	// Empty means no metrics listener.
	viper.SetDefault("metrics.addr", "")

	viper.SetDefault("log.development", false)

	viper.SetEnvPrefix("KPOPNET") // e.g. KPOPNET_CRAWLER_CONCURRENCY=4
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logging.L.Debug("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
