/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/seckatie/linklift/internal/core/domain"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Show the link graph",
	Long: `Show the graph of links and their relations. --expand merges the related
links of the given link ids into the graph first.`,
	Args: cobra.NoArgs,
	RunE: withApp(runGraph),
}

func runGraph(cmd *cobra.Command, _ []string, a *app) error {
	expand, err := cmd.Flags().GetStringArray("expand")
	if err != nil {
		return fmt.Errorf("failed to read --expand: %w", err)
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json: %w", err)
	}

	ctx := cmd.Context()
	if err := a.store.FetchGraph(ctx); err != nil {
		return failure(a.store.Graph().Message, err)
	}
	for _, id := range expand {
		if _, err := a.store.ExpandNode(ctx, id); err != nil {
			return failure(a.store.Graph().Message, err)
		}
	}

	data := a.store.Graph().Data
	if asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	a.printGraph(data)
	return nil
}

func (a *app) printGraph(g domain.GraphData) {
	labels := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		labels[n.ID] = n.Label
		if n.Label == "" {
			labels[n.ID] = n.URL
		}
	}

	edges := make(map[string][]string)
	for _, e := range g.Edges {
		edges[e.Source] = append(edges[e.Source], e.Target)
	}

	a.printf("%d nodes, %d edges\n", len(g.Nodes), len(g.Edges))
	nodes := append([]domain.GraphNode(nil), g.Nodes...)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	for _, n := range nodes {
		a.printf("%s  %s\n", n.ID, labels[n.ID])
		targets := edges[n.ID]
		sort.Strings(targets)
		for _, t := range targets {
			a.printf("  -> %s  %s\n", t, labels[t])
		}
	}
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringArray("expand", nil, "Merge the related links of this link id (repeatable)")
	graphCmd.Flags().Bool("json", false, "Print the graph as JSON")
}
