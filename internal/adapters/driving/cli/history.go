package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ideabot/internal/core/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history [chat-id]",
	Short: "Show recently generated ideas",
	Long: `Show the most recent ideas generated for a Telegram chat, newest first.

Without a chat ID, ideas generated from the command line and MCP are shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show generation counts per category",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "maximum number of ideas")
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if ideaService == nil {
		return errors.New("idea service not configured")
	}

	var chatID int64
	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid chat ID %q", args[0])
		}
		chatID = id
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("getting limit flag: %w", err)
	}

	ideas, err := ideaService.History(cmd.Context(), chatID, limit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(ideas) == 0 {
		fmt.Fprintln(out, "No ideas found.")
		return nil
	}

	for i, idea := range ideas {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, titleStyle.Render(idea.CategoryLabel))
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%s · %s · %s",
			idea.CreatedAt.Local().Format("2006-01-02 15:04"), idea.Model, idea.ID)))
		fmt.Fprintln(out, idea.Text)
	}
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	if ideaService == nil {
		return errors.New("idea service not configured")
	}

	stats, err := ideaService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total ideas: %s\n", countStyle.Render(strconv.Itoa(stats.Total)))
	if stats.Total == 0 {
		return nil
	}

	keys := make([]string, 0, len(stats.ByCategory))
	for key := range stats.ByCategory {
		keys = append(keys, key)
	}
	// Most generated first, then by key for a stable listing.
	sort.Slice(keys, func(i, j int) bool {
		a, b := stats.ByCategory[keys[i]], stats.ByCategory[keys[j]]
		if a != b {
			return a > b
		}
		return keys[i] < keys[j]
	})

	fmt.Fprintln(out)
	for _, key := range keys {
		fmt.Fprintf(out, "  %5d  %s\n", stats.ByCategory[key], domain.CategoryLabel(key))
	}
	return nil
}
