package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slateplayer/slate/internal/playlist"
)

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Work with saved playlist files",
}

var playlistShuffleCmd = &cobra.Command{
	Use:   "shuffle <file>",
	Short: "Shuffle a playlist file in place (or into --out)",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistShuffle,
}

var playlistFindCmd = &cobra.Command{
	Use:   "find <file> <query>...",
	Short: "Fuzzy-find an entry by title",
	Long: `Fuzzy-find an entry by title.

Titles are matched by Jaro-Winkler similarity over the normalized base
name, so approximate queries work:

  slate playlist find night.playlist big buck bunny`,
	Args: cobra.MinimumNArgs(2),
	RunE: runPlaylistFind,
}

func init() {
	rootCmd.AddCommand(playlistCmd)
	playlistCmd.AddCommand(playlistShuffleCmd)
	playlistCmd.AddCommand(playlistFindCmd)

	playlistShuffleCmd.Flags().String("out", "", "Write the shuffled order to a different file")
}

func runPlaylistShuffle(cmd *cobra.Command, args []string) error {
	pl, err := playlist.LoadFile(args[0], logger)
	if err != nil {
		return err
	}
	if pl.Len() == 0 {
		return fmt.Errorf("playlist %q has no surviving entries", args[0])
	}
	pl.Shuffle()

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = args[0]
	}
	if err := pl.ExportFile(out); err != nil {
		return err
	}
	logger.Info("playlist shuffled", "path", out, "entries", pl.Len())
	return nil
}

func runPlaylistFind(cmd *cobra.Command, args []string) error {
	pl, err := playlist.LoadFile(args[0], logger)
	if err != nil {
		return err
	}
	query := strings.Join(args[1:], " ")
	entry, ok := pl.Find(query)
	if !ok {
		return fmt.Errorf("no entry matches %q", query)
	}
	fmt.Println(entry.Path)
	return nil
}
