package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/slateplayer/slate/internal/playlist"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past scans recorded in the catalog",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <scan-id>",
	Short: "Print the entries of one recorded scan",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyExportCmd = &cobra.Command{
	Use:   "export <scan-id> <file>",
	Short: "Export a recorded scan as a playlist file",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistoryExport,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete scans older than a cutoff",
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyCmd.Flags().Int("limit", 20, "Maximum number of scans to list")
	historyShowCmd.Flags().Bool("markers", false, "Also list the exclusion markers seen")
	historyPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "Age cutoff")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	limit, _ := cmd.Flags().GetInt("limit")
	scans, err := store.ListScans(limit)
	if err != nil {
		return err
	}
	if len(scans) == 0 {
		fmt.Println("No recorded scans")
		return nil
	}

	fmt.Printf("%4s  %-19s  %8s  %8s  %s\n", "ID", "FINISHED", "ENTRIES", "WARNINGS", "ROOTS")
	for _, s := range scans {
		fmt.Printf("%4d  %-19s  %8d  %8d  %s\n",
			s.ID,
			s.FinishedAt.Local().Format("2006-01-02 15:04:05"),
			s.EntryCount,
			s.WarningCount,
			strings.Join(s.Roots, ", "))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid scan id %q", args[0])
	}
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.Entries(id)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Println(e.Path)
	}

	if withMarkers, _ := cmd.Flags().GetBool("markers"); withMarkers {
		markers, err := store.Markers(id)
		if err != nil {
			return err
		}
		for _, m := range markers {
			fmt.Println("marker:", m)
		}
	}
	return nil
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid scan id %q", args[0])
	}
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.Entries(id)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("scan %d has no entries", id)
	}
	pl := playlist.New()
	pl.Append(entries...)
	if err := pl.ExportFile(args[1]); err != nil {
		return err
	}
	logger.Info("scan exported", "scan_id", id, "path", args[1], "entries", pl.Len())
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	olderThan, _ := cmd.Flags().GetDuration("older-than")
	n, err := store.Prune(olderThan)
	if err != nil {
		return err
	}
	fmt.Printf("Pruned %d scans\n", n)
	return nil
}
