package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"enterprise-brain/backend/internal/graph"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

type rootOptions struct {
	file string
}

// load returns the dataset named by --file, or the built-in sample
func (o *rootOptions) load() (*graph.Store, error) {
	data := graph.SampleData()
	if o.file != "" {
		loaded, err := graph.LoadFile(o.file)
		if err != nil {
			return nil, err
		}
		data = loaded
	}
	return graph.NewStore(data)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "brainctl",
		Short:         "brainctl - inspect an enterprise knowledge graph",
		Long:          brand.Sprint("brainctl") + " - query, filter and export a knowledge graph dataset",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("brainctl {{ .Version }}\n")
	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "JSON or YAML dataset (defaults to the sample graph)")

	root.AddCommand(
		queryCmd(opts),
		statsCmd(opts),
		nodeCmd(opts),
		neighborsCmd(opts),
		explainCmd(opts),
		exportCmd(opts),
	)

	wrapErrors(root)
	return root
}

// wrapErrors prints RunE errors in color since the root silences cobra's own
func wrapErrors(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		if sub.RunE != nil {
			run := sub.RunE
			sub.RunE = func(c *cobra.Command, args []string) error {
				err := run(c, args)
				if err != nil {
					bad.Fprintf(c.ErrOrStderr(), "  %v\n", err)
				}
				return err
			}
		}
		wrapErrors(sub)
	}
}

func queryCmd(opts *rootOptions) *cobra.Command {
	var (
		text   string
		types  []string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "query",
		Aliases: []string{"q", "filter"},
		Short:   "Filter nodes by text and type and show the edges between them",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.load()
			if err != nil {
				return err
			}

			q := graph.QueryState{SearchText: text, ActiveTypes: graph.TypeSet{}}
			for _, name := range types {
				t, err := graph.ParseNodeType(name)
				if err != nil {
					return err
				}
				q.ActiveTypes[t] = struct{}{}
			}

			view := graph.Filter(store, q)
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, view)
			}

			banner(out, fmt.Sprintf("%d of %d nodes, %d edges", len(view.Nodes), store.Len(), len(view.Edges)))
			if len(view.Nodes) == 0 {
				fmt.Fprintln(out, "  No nodes match.")
				return nil
			}
			table(out, []string{"ID", "Type", "Label"}, nodeRows(view.Nodes), colorType)
			if len(view.Edges) > 0 {
				fmt.Fprintln(out)
				table(out, []string{"Source", "Relation", "Target"}, edgeRows(view.Edges), nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "search", "s", "", "Case-insensitive text matched against label or id")
	cmd.Flags().StringSliceVarP(&types, "type", "t", nil, "Node types to keep (repeatable or comma separated)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the view as JSON")
	return cmd
}

func statsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show node and edge totals per type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.load()
			if err != nil {
				return err
			}
			stats := store.Stats()
			out := cmd.OutOrStdout()

			banner(out, "graph statistics")
			fmt.Fprintf(out, "  Nodes:  %d\n", stats.TotalNodes)
			fmt.Fprintf(out, "  Edges:  %d\n\n", stats.TotalEdges)
			for _, t := range graph.AllNodeTypes() {
				fmt.Fprintf(out, "  %-14s %d\n", typeLabel(t), stats.NodesByType[t])
			}
			if dangling := store.DanglingEdges(); len(dangling) > 0 {
				fmt.Fprintln(out)
				subtle.Fprintf(out, "  %d edges reference missing nodes and are hidden\n", len(dangling))
			}
			return nil
		},
	}
}

func nodeCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "node <id>",
		Short: "Show a node with its metadata and relations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.load()
			if err != nil {
				return err
			}
			detail, ok := store.Detail(args[0])
			if !ok {
				return fmt.Errorf("node not found: %s", args[0])
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, detail)
			}

			banner(out, detail.Node.Label)
			fmt.Fprintf(out, "  ID:    %s\n", detail.Node.ID)
			fmt.Fprintf(out, "  Type:  %s\n", typeLabel(detail.Node.Type))
			for _, k := range detail.Node.Metadata.Keys() {
				fmt.Fprintf(out, "  %s: %s\n", k, detail.Node.Metadata[k].Text())
			}
			if len(detail.Outgoing) > 0 {
				fmt.Fprintln(out)
				subtle.Fprintln(out, "  Outgoing")
				table(out, []string{"Source", "Relation", "Target"}, edgeRows(detail.Outgoing), nil)
			}
			if len(detail.Incoming) > 0 {
				fmt.Fprintln(out)
				subtle.Fprintln(out, "  Incoming")
				table(out, []string{"Source", "Relation", "Target"}, edgeRows(detail.Incoming), nil)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the detail as JSON")
	return cmd
}

func neighborsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "neighbors <id>",
		Aliases: []string{"n"},
		Short:   "List nodes connected to a node in either direction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.load()
			if err != nil {
				return err
			}
			if !store.Has(args[0]) {
				return fmt.Errorf("node not found: %s", args[0])
			}
			neighbors := store.Neighbors(args[0])
			out := cmd.OutOrStdout()

			banner(out, fmt.Sprintf("%d neighbors of %s", len(neighbors), args[0]))
			table(out, []string{"ID", "Type", "Label"}, nodeRows(neighbors), colorType)
			return nil
		},
	}
}

func explainCmd(opts *rootOptions) *cobra.Command {
	var hops int

	cmd := &cobra.Command{
		Use:   "explain <id>",
		Short: "Trace the causal chains leading into a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.load()
			if err != nil {
				return err
			}
			exp := graph.Explain(store, args[0], graph.ExplainOptions{MaxHops: hops})
			if !exp.Found {
				return fmt.Errorf("node not found: %s", args[0])
			}
			out := cmd.OutOrStdout()

			banner(out, "causal chains for "+args[0])
			if len(exp.Paths) == 0 {
				fmt.Fprintln(out, "  No causal chains.")
				return nil
			}
			for _, p := range exp.Paths {
				line := "  " + p.Nodes[0].Label
				for i, rel := range p.Relations {
					line += subtle.Sprintf(" <-[%s]- ", rel) + p.Nodes[i+1].Label
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&hops, "hops", graph.DefaultExplainHops, "Maximum chain length")
	return cmd
}

func exportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dataset as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.load()
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return graph.Encode(w, store.Data(), graph.Format(format))
		},
	}
	cmd.Flags().StringVar(&format, "format", string(graph.FormatJSON), "Output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
