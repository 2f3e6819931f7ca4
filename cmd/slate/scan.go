package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/slateplayer/slate/internal/catalog"
	"github.com/slateplayer/slate/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan [roots...]",
	Short: "Discover playable media under the given roots",
	Long: `Discover playable media.

Roots come from arguments, or from scan.roots in the config file when
no arguments are given. Each root is walked depth-first in lexical
order; a directory containing a .ignore marker is skipped along with
its entire subtree.

Examples:
  slate scan /media/videos
  slate scan --no-recurse /media/videos /media/clips
  slate scan --export night.playlist /media/videos
  slate scan --save /media/videos`,
	RunE: runScanCmd,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	addScanFlags(scanCmd)
	scanCmd.Flags().Bool("print-ignores", false, "List the exclusion markers encountered")
	scanCmd.Flags().String("export", "", "Write the discovered playlist to a file")
	scanCmd.Flags().Bool("save", false, "Record the scan in the catalog")
}

// addScanFlags registers the traversal flags shared by scan and play.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-recurse", false, "Scan only the immediate contents of each root")
	cmd.Flags().Bool("no-ignore", false, "Disable .ignore exclusion markers")
	cmd.Flags().Bool("disable-gif", false, "Exclude .gif files")
}

// scanSettings merges config scan settings with command-line overrides.
func scanSettings(cmd *cobra.Command, args []string) (scan.Options, []string) {
	sc := cfg.Scan
	if v, _ := cmd.Flags().GetBool("no-recurse"); v {
		sc.NoRecurse = true
	}
	if v, _ := cmd.Flags().GetBool("no-ignore"); v {
		sc.NoIgnore = true
	}
	if v, _ := cmd.Flags().GetBool("disable-gif"); v {
		sc.DisableGIF = true
	}
	roots := args
	if len(roots) == 0 {
		roots = sc.Roots
	}
	return scan.Options{
		Recurse:     !sc.NoRecurse,
		NoIgnore:    sc.NoIgnore,
		DisableGIF:  sc.DisableGIF,
		MaxDirReads: sc.MaxDirReads,
	}, roots
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	opts, roots := scanSettings(cmd, args)
	started := time.Now()
	res, err := scan.New(opts, logger).Scan(ctx, roots)
	if err != nil {
		return err
	}
	finished := time.Now()

	for _, e := range res.Entries {
		fmt.Println(e.Path)
	}
	if printIgnores, _ := cmd.Flags().GetBool("print-ignores"); printIgnores {
		for _, m := range res.Markers {
			fmt.Fprintln(os.Stderr, "marker:", m)
		}
	}

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		if err := res.Playlist().ExportFile(exportPath); err != nil {
			return err
		}
		logger.Info("playlist exported", "path", exportPath, "entries", len(res.Entries))
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		store, err := openCatalog()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		id, err := store.SaveScan(roots, started, finished, res)
		if err != nil {
			return fmt.Errorf("save scan: %w", err)
		}
		logger.Info("scan saved", "scan_id", id)
	}

	if len(res.Entries) == 0 {
		return scan.ErrNoMedia
	}
	return nil
}

// openCatalog opens the configured catalog database, creating its
// directory when needed.
func openCatalog() (*catalog.Store, error) {
	if dir := filepath.Dir(cfg.Catalog.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create catalog dir: %w", err)
		}
	}
	return catalog.Open(cfg.Catalog.Path)
}
