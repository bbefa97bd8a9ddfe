/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/seckatie/linklift/internal/core/domain"
)

var collectionsCmd = &cobra.Command{
	Use:     "collections",
	Aliases: []string{"coll"},
	Short:   "Organize links into collections",
}

var collectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections",
	Args:  cobra.NoArgs,
	RunE:  withApp(runCollectionsList),
}

var collectionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a collection and its links",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runCollectionsShow),
}

var collectionsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runCollectionsCreate),
}

var collectionsRmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Delete collections",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withApp(runCollectionsRm),
}

var collectionsAddLinkCmd = &cobra.Command{
	Use:   "add-link <collection-id> <link-id>...",
	Short: "Add links to a collection",
	Args:  cobra.MinimumNArgs(2),
	RunE:  withApp(runCollectionsAddLink),
}

var collectionsRemoveLinkCmd = &cobra.Command{
	Use:   "remove-link <collection-id> <link-id>",
	Short: "Remove a link from a collection",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runCollectionsRemoveLink),
}

func runCollectionsList(cmd *cobra.Command, _ []string, a *app) error {
	if err := a.store.FetchCollections(cmd.Context()); err != nil {
		return failure(a.store.Collections().Message, err)
	}
	cols := a.store.Collections().Collections
	if len(cols) == 0 {
		a.printf("No collections.\n")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, c := range cols {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Description)
	}
	return tw.Flush()
}

func runCollectionsShow(cmd *cobra.Command, args []string, a *app) error {
	if err := a.store.FetchCollection(cmd.Context(), args[0]); err != nil {
		return failure(a.store.Collections().Message, err)
	}
	cur := a.store.Collections().Current
	a.printf("%s\n", cur.Collection.Name)
	if cur.Collection.Description != "" {
		a.printf("%s\n", cur.Collection.Description)
	}
	if cur.Collection.Query != "" {
		a.printf("Query: %s\n", cur.Collection.Query)
	}
	a.printf("\n")
	if len(cur.Links) == 0 {
		a.printf("No links in this collection.\n")
		return nil
	}
	a.printLinks(cur.Links)
	return nil
}

func runCollectionsCreate(cmd *cobra.Command, args []string, a *app) error {
	description, err := cmd.Flags().GetString("description")
	if err != nil {
		return fmt.Errorf("failed to read --description: %w", err)
	}
	query, err := cmd.Flags().GetString("query")
	if err != nil {
		return fmt.Errorf("failed to read --query: %w", err)
	}
	name := strings.TrimSpace(args[0])
	if name == "" {
		return domain.FieldErrors{domain.FieldName: "Name is required"}
	}

	created, err := a.store.CreateCollection(cmd.Context(), domain.NewCollection{
		Name:        name,
		Description: description,
		Query:       query,
	})
	if err != nil {
		return failure(a.store.Collections().Message, err)
	}
	a.printf("Created collection %s (%s)\n", created.ID, created.Name)
	return nil
}

func runCollectionsRm(cmd *cobra.Command, args []string, a *app) error {
	var result error
	for _, id := range args {
		if err := a.store.DeleteCollection(cmd.Context(), id); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", id, err))
			continue
		}
		a.printf("Deleted collection %s\n", id)
	}
	return result
}

func runCollectionsAddLink(cmd *cobra.Command, args []string, a *app) error {
	collectionID := args[0]
	var result error
	for _, linkID := range args[1:] {
		if err := a.store.AddLinkToCollection(cmd.Context(), collectionID, linkID); err != nil {
			result = multierror.Append(result, failure(a.store.Collections().Message, fmt.Errorf("%s: %w", linkID, err)))
			continue
		}
		a.printf("Added %s to %s\n", linkID, collectionID)
	}
	return result
}

func runCollectionsRemoveLink(cmd *cobra.Command, args []string, a *app) error {
	if err := a.store.RemoveLinkFromCollection(cmd.Context(), args[0], args[1]); err != nil {
		return failure(a.store.Collections().Message, err)
	}
	a.printf("Removed %s from %s\n", args[1], args[0])
	return nil
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
	collectionsCmd.AddCommand(
		collectionsListCmd,
		collectionsShowCmd,
		collectionsCreateCmd,
		collectionsRmCmd,
		collectionsAddLinkCmd,
		collectionsRemoveLinkCmd,
	)

	collectionsCreateCmd.Flags().String("description", "", "Collection description")
	collectionsCreateCmd.Flags().String("query", "", "Saved search query")
}
