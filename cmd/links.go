/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/seckatie/linklift/internal/core/domain"
	"github.com/seckatie/linklift/internal/core/viewer"
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "List and manage links",
}

var linksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of links",
	Args:  cobra.NoArgs,
	RunE:  withApp(runLinksList),
}

var linksAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a link",
	Args:  cobra.NoArgs,
	RunE:  withApp(runLinksAdd),
}

var linksEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Replace the title and description of a link",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runLinksEdit),
}

var linksRmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Delete links",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withApp(runLinksRm),
}

var linksRelatedCmd = &cobra.Command{
	Use:   "related <id>",
	Short: "List links related to a link",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runLinksRelated),
}

func (a *app) printLinks(links []domain.Link) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tURL\tADDED")
	now := time.Now()
	for _, l := range links {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.ID, l.Title, l.URL, viewer.FormatDate(l.ExtractedAt, now))
	}
	_ = tw.Flush()
}

func runLinksList(cmd *cobra.Command, _ []string, a *app) error {
	req := a.cfg.PageRequest()
	var err error
	if req.Page, err = cmd.Flags().GetInt("page"); err != nil {
		return fmt.Errorf("failed to read --page: %w", err)
	}
	if cmd.Flags().Changed("size") {
		if req.Size, err = cmd.Flags().GetInt("size"); err != nil {
			return fmt.Errorf("failed to read --size: %w", err)
		}
	}
	if cmd.Flags().Changed("sort") {
		if req.SortBy, err = cmd.Flags().GetString("sort"); err != nil {
			return fmt.Errorf("failed to read --sort: %w", err)
		}
	}
	if cmd.Flags().Changed("dir") {
		dir, err := cmd.Flags().GetString("dir")
		if err != nil {
			return fmt.Errorf("failed to read --dir: %w", err)
		}
		req.SortDirection = domain.NormalizeSortDirection(dir)
	}
	if req.Page < 0 || req.Size <= 0 {
		return errors.New("--page must be >= 0 and --size > 0")
	}

	if err := a.store.FetchLinks(cmd.Context(), req); err != nil {
		return failure(a.store.Links().Message, err)
	}

	st := a.store.Links()
	if len(st.Links) == 0 {
		a.printf("No links.\n")
		return nil
	}
	a.printLinks(st.Links)
	a.printf("\nPage %d of %d (%d links)\n", st.Request.Page+1, st.TotalPages, st.TotalElements)
	return nil
}

func runLinksAdd(cmd *cobra.Command, _ []string, a *app) error {
	form := viewer.NewAddLinkForm(a.store, nil)
	var err error
	if form.URL, err = cmd.Flags().GetString("url"); err != nil {
		return fmt.Errorf("failed to read --url: %w", err)
	}
	if form.Title, err = cmd.Flags().GetString("title"); err != nil {
		return fmt.Errorf("failed to read --title: %w", err)
	}
	if form.Description, err = cmd.Flags().GetString("description"); err != nil {
		return fmt.Errorf("failed to read --description: %w", err)
	}

	created, err := form.Submit(cmd.Context())
	if err != nil {
		var fe domain.FieldErrors
		if errors.As(err, &fe) {
			return fe
		}
		return failure(form.Message, err)
	}
	a.printf("Added %s (%s)\n", created.ID, created.URL)
	return nil
}

func runLinksEdit(cmd *cobra.Command, args []string, a *app) error {
	title, err := cmd.Flags().GetString("title")
	if err != nil {
		return fmt.Errorf("failed to read --title: %w", err)
	}
	description, err := cmd.Flags().GetString("description")
	if err != nil {
		return fmt.Errorf("failed to read --description: %w", err)
	}
	// The update replaces both fields.
	if title == "" {
		return errors.New("--title is required")
	}

	updated, err := a.store.UpdateLink(cmd.Context(), args[0], domain.LinkUpdate{
		Title:       title,
		Description: description,
	})
	if err != nil {
		return failure(a.store.Links().Message, err)
	}
	a.printf("Updated %s: %s\n", updated.ID, updated.Title)
	return nil
}

func runLinksRm(cmd *cobra.Command, args []string, a *app) error {
	var result error
	for _, id := range args {
		if err := a.store.DeleteLink(cmd.Context(), id); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", id, err))
			continue
		}
		a.printf("Deleted %s\n", id)
	}
	return result
}

func runLinksRelated(cmd *cobra.Command, args []string, a *app) error {
	links, err := a.uc.GetRelatedLinks.Execute(cmd.Context(), args[0])
	if err != nil {
		return failure("Failed to load related links.", err)
	}
	if len(links) == 0 {
		a.printf("No related links.\n")
		return nil
	}
	a.printLinks(links)
	return nil
}

func init() {
	rootCmd.AddCommand(linksCmd)
	linksCmd.AddCommand(linksListCmd, linksAddCmd, linksEditCmd, linksRmCmd, linksRelatedCmd)

	linksListCmd.Flags().Int("page", 0, "Zero-based page number")
	linksListCmd.Flags().Int("size", domain.DefaultPageSize, "Page size")
	linksListCmd.Flags().String("sort", domain.DefaultSortBy, "Sort field")
	linksListCmd.Flags().String("dir", domain.SortDesc, "Sort direction (ASC or DESC)")

	linksAddCmd.Flags().String("url", "", "Link URL")
	linksAddCmd.Flags().String("title", "", "Link title")
	linksAddCmd.Flags().String("description", "", "Link description")

	linksEditCmd.Flags().String("title", "", "New title")
	linksEditCmd.Flags().String("description", "", "New description")
}
