package router

import "time"

type Config struct {
	CacheCapacity int           `env:"ROUTER_CACHE_CAPACITY" envDefault:"100"`    // CacheCapacity caps the number of cached tenant handles.
	MaxRetries    int           `env:"ROUTER_MAX_RETRIES" envDefault:"3"`         // MaxRetries bounds acquisition attempts per cache miss.
	RetryInterval time.Duration `env:"ROUTER_RETRY_INTERVAL" envDefault:"100ms"`  // RetryInterval is the base backoff between acquisition attempts.
}

// OptionsFromConfig translates an env-loaded Config into options for New.
func OptionsFromConfig(cfg Config) []Option {
	var opts []Option
	if cfg.CacheCapacity > 0 {
		opts = append(opts, WithCapacity(cfg.CacheCapacity))
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, WithMaxRetries(cfg.MaxRetries))
	}
	if cfg.RetryInterval > 0 {
		opts = append(opts, WithRetryInterval(cfg.RetryInterval))
	}
	return opts
}
