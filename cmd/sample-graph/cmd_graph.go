package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sample-graph/sample-graph-api/client"
)

func newGraphCmd() *cobra.Command {
	var (
		degree int
		stream bool
	)
	cmd := &cobra.Command{
		Use:   "graph <id>",
		Short: "Build the relationship graph around a song",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSongID(args[0])
			if err != nil {
				return err
			}
			ctx := context.Background()

			if stream {
				err := apiClient.Graph.Stream(ctx, id, degree, func(ev client.GraphEvent) error {
					if flagFmt == "table" {
						printEvent(ev)
						return nil
					}
					output(ev)
					return nil
				})
				if err != nil {
					fatal("graph stream", err)
				}
				return nil
			}

			g, err := apiClient.Graph.Build(ctx, id, degree)
			if err != nil {
				fatal("graph", err)
			}
			if flagFmt == "table" {
				printGraphTable(g)
				return nil
			}
			output(g)
			return nil
		},
	}
	cmd.Flags().IntVarP(&degree, "degree", "d", -1, "Maximum hops from the song (server default when negative)")
	cmd.Flags().BoolVar(&stream, "stream", false, "Stream nodes and edges as they are discovered")
	return cmd
}

// printEvent writes one line per streamed graph event.
func printEvent(ev client.GraphEvent) {
	switch ev.Kind {
	case "node":
		if ev.Node != nil {
			fmt.Printf("node  %-4d %s (%s) degree=%d\n", ev.Index, ev.Node.Song.Title, ev.Node.Song.ArtistName, ev.Node.Degree)
		}
	case "edge":
		if ev.Edge != nil {
			fmt.Printf("edge  %d -[%s]-> %d\n", ev.Edge.Source, ev.Edge.Type, ev.Edge.Target)
		}
	case "done":
		fmt.Printf("done  %d songs, %d relationships\n", ev.Nodes, ev.Edges)
	}
}
