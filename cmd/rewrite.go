package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/agenda-vta/internal/nav"
	"github.com/ziadkadry99/agenda-vta/internal/progress"
	"github.com/ziadkadry99/agenda-vta/internal/routes"
	"github.com/ziadkadry99/agenda-vta/internal/walker"
)

// manifestName records the source hash of every rewritten page in the
// output directory.
const manifestName = ".agendavta-rewrite.json"

var (
	rewriteSiteDir string
	rewriteOut     string
	rewriteForce   bool
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Write a copy of the prototype with its sidebar links resolved",
	Long: `Runs the static-mode navigator over every page of the prototype and
writes the result to an output directory, so the pages can be opened from
disk without the server. Session-dependent passes are skipped. Pages whose
source is unchanged since the last run are left alone unless --force is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogger(cfg)

		siteDir := cfg.SiteDir
		if rewriteSiteDir != "" {
			siteDir = rewriteSiteDir
		}
		srcAbs, err := filepath.Abs(siteDir)
		if err != nil {
			return err
		}
		outAbs, err := filepath.Abs(rewriteOut)
		if err != nil {
			return err
		}
		if srcAbs == outAbs {
			return fmt.Errorf("output directory must differ from the site directory")
		}

		pages, err := walker.Walk(walker.WalkerConfig{RootDir: srcAbs, Pattern: cfg.PagesGlob, Exclude: cfg.Exclude})
		if err != nil {
			return err
		}

		manifestPath := filepath.Join(outAbs, manifestName)
		previous := map[string]string{}
		if !rewriteForce {
			if previous, err = readManifest(manifestPath); err != nil {
				return err
			}
		}

		navigator := nav.New(routes.MustForMode(routes.ModeStatic))
		reporter := progress.NewReporter("Rewriting pages")
		reporter.Start(len(pages))

		current := make(map[string]string, len(pages))
		links, skipped := 0, 0
		for i, p := range pages {
			dest := filepath.Join(outAbs, filepath.FromSlash(p.RelPath))
			current[p.RelPath] = p.ContentHash

			if previous[p.RelPath] == p.ContentHash && fileExists(dest) {
				skipped++
				reporter.Update(i+1, p.RelPath)
				continue
			}

			n, err := rewritePage(navigator, p, dest)
			if err != nil {
				reporter.Finish()
				return fmt.Errorf("%s: %w", p.RelPath, err)
			}
			links += n
			reporter.Update(i+1, p.RelPath)
		}
		reporter.Finish()

		if err := writeManifest(manifestPath, current); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Rewrote %d links in %d pages into %s (%d unchanged)\n",
			links, len(pages)-skipped, outAbs, skipped)
		return nil
	},
}

func rewritePage(navigator *nav.Navigator, p walker.PageFile, dest string) (int, error) {
	in, err := os.Open(p.Path)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, err
	}
	out, err := os.Create(dest)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	res, err := navigator.Transform(in, out, nav.PageContext{Current: p.Page, RelPath: p.RelPath})
	if err != nil {
		return 0, err
	}
	return res.LinksRewritten, nil
}

// readManifest loads the hashes of the previous run. A missing manifest is
// an empty one.
func readManifest(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m := map[string]string{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}

func writeManifest(path string, hashes map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(hashes, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func init() {
	rewriteCmd.Flags().StringVar(&rewriteSiteDir, "site-dir", "", "Prototype directory (default: site_dir from config)")
	rewriteCmd.Flags().StringVarP(&rewriteOut, "out", "o", "dist", "Output directory")
	rewriteCmd.Flags().BoolVar(&rewriteForce, "force", false, "Rewrite every page even if unchanged")
	rootCmd.AddCommand(rewriteCmd)
}
