package config

import "github.com/ziadkadry99/agenda-vta/internal/routes"

// DefaultPort is the HTTP port used when none is configured.
const DefaultPort = 8080

// DefaultExcludes are glob patterns skipped when discovering static pages.
var DefaultExcludes = []string{
	".git/**",
	"**/node_modules/**",
	"**/backend/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mode:           routes.ModeBackend,
		Port:           DefaultPort,
		SiteDir:        "prototipo-vta",
		PagesGlob:      "**/*.html",
		Exclude:        append([]string(nil), DefaultExcludes...),
		DataDir:        ".agendavta",
		LoginDelay:     "400ms",
		PollInterval:   "5s",
		LogLevel:       LogInfo,
		Language:       "pt-BR",
		AllowedOrigins: []string{"*"},
	}
}
