package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/agenda-vta/internal/routes"
)

// siteMarkers are files whose presence suggests the working directory
// holds the static prototype.
var siteMarkers = []string{
	"1. login_vta.html",
	"2. dashboard_vta.html",
	"prototipo-vta/1. login_vta.html",
	"prototipo-vta/2. dashboard_vta.html",
}

// detectSiteDir returns the directory holding the prototype pages, if any.
func detectSiteDir() string {
	for _, marker := range siteMarkers {
		if _, err := os.Stat(marker); err == nil {
			return filepath.Dir(marker)
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to agendavta! Let's configure the navigator.")
	fmt.Println()

	cfg := DefaultConfig()

	siteDir := detectSiteDir()
	if siteDir != "" {
		fmt.Printf("Detected static prototype in %s\n\n", siteDir)
		cfg.SiteDir = siteDir
	}

	// 1. Routing mode.
	modePrompt := promptui.Select{
		Label: "Select routing mode",
		Items: []string{
			"backend - server paths (/dashboard, /agenda, ...)",
			"static  - prototype HTML files",
		},
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("mode selection: %w", err)
	}
	cfg.Mode = []routes.Mode{routes.ModeBackend, routes.ModeStatic}[modeIdx]

	// 2. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 3. Site directory, only used by static mode.
	if cfg.Mode == routes.ModeStatic {
		sitePrompt := promptui.Prompt{
			Label:   "Directory with the prototype HTML files",
			Default: cfg.SiteDir,
		}
		cfg.SiteDir, err = sitePrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("site dir: %w", err)
		}
	}

	// 4. Language.
	langPrompt := promptui.Select{
		Label: "Interface language",
		Items: []string{"pt-BR", "en"},
	}
	_, cfg.Language, err = langPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("language selection: %w", err)
	}

	// 5. Allowed origins.
	originsPrompt := promptui.Prompt{
		Label:   "Allowed CORS origins (comma-separated)",
		Default: "*",
	}
	originsStr, err := originsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("allowed origins: %w", err)
	}
	cfg.AllowedOrigins = splitAndTrim(originsStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and drops empty entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
