package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/inferloop/tsinsight/internal/analysis"
	"github.com/inferloop/tsinsight/pkg/constants"
)

// Load reads the engine configuration from an optional config file and
// TSINSIGHT_* environment variables, falling back to defaults.
func Load(cfgFile string) (*analysis.EngineConfig, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("tsinsight")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("TSINSIGHT")
	v.AutomaticEnv()

	defaults := analysis.DefaultEngineConfig()
	v.SetDefault("cache_enabled", defaults.CacheEnabled)
	v.SetDefault("cache_ttl", defaults.CacheTTL)
	v.SetDefault("cache_size", defaults.CacheSize)
	v.SetDefault("anomaly_multiplier", defaults.AnomalyMultiplier)
	v.SetDefault("correlation_threshold", defaults.CorrelationThreshold)
	v.SetDefault("annualization_factor", constants.DefaultAnnualizationFactor)
	v.SetDefault("momentum_window", constants.DefaultMomentumWindow)
	v.SetDefault("rolling_window", defaults.RollingWindow)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &analysis.EngineConfig{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return config, nil
}
