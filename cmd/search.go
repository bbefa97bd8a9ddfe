/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seckatie/linklift/internal/core/store"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search extracted content",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withApp(runSearch),
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Server maintenance",
}

var adminBackfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Generate search embeddings for content that has none",
	Args:  cobra.NoArgs,
	RunE:  withApp(runAdminBackfill),
}

func runSearch(cmd *cobra.Command, args []string, a *app) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("failed to read --limit: %w", err)
	}

	results, err := a.store.Search(cmd.Context(), strings.Join(args, " "), limit)
	if err != nil {
		return failure(a.store.SearchResults().Message, err)
	}
	if len(results) == 0 {
		a.printf("No results.\n")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINK\tTITLE\tSUMMARY")
	for _, c := range results {
		title := c.ExtractedTitle
		if title == "" {
			title = "-"
		}
		summary := c.Summary
		if summary == "" {
			summary = c.ExtractedDescription
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.LinkID, title, truncate(summary, 80))
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func runAdminBackfill(cmd *cobra.Command, _ []string, a *app) error {
	msg, err := a.store.BackfillEmbeddings(cmd.Context())
	if err != nil {
		return failure(a.store.SearchResults().Message, err)
	}
	a.printf("%s\n", msg)
	return nil
}

func init() {
	rootCmd.AddCommand(searchCmd, adminCmd)
	adminCmd.AddCommand(adminBackfillCmd)

	searchCmd.Flags().IntP("limit", "n", store.DefaultSearchLimit, "Maximum number of results")
}
