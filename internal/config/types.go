package config

import "github.com/ziadkadry99/agenda-vta/internal/routes"

// LogLevel names a slog level.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// Config is the top-level agendavta configuration, corresponding to .agendavta.yml.
type Config struct {
	Mode           routes.Mode `yaml:"mode" koanf:"mode"`
	Port           int         `yaml:"port" koanf:"port"`
	SiteDir        string      `yaml:"site_dir" koanf:"site_dir"`
	PagesGlob      string      `yaml:"pages_glob" koanf:"pages_glob"`
	Exclude        []string    `yaml:"exclude" koanf:"exclude"`
	DataDir        string      `yaml:"data_dir" koanf:"data_dir"`
	LoginDelay     string      `yaml:"login_delay" koanf:"login_delay"`
	PollInterval   string      `yaml:"poll_interval" koanf:"poll_interval"`
	StatsURL       string      `yaml:"stats_url" koanf:"stats_url"`
	LogLevel       LogLevel    `yaml:"log_level" koanf:"log_level"`
	Language       string      `yaml:"language" koanf:"language"`
	AllowedOrigins []string    `yaml:"allowed_origins" koanf:"allowed_origins"`
	CookieSecure   bool        `yaml:"cookie_secure" koanf:"cookie_secure"`
}
