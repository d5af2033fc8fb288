package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sample-graph/sample-graph-api/client"
)

// parseSongID parses a positional song id argument.
func parseSongID(arg string) (uint32, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid song id %q", arg)
	}
	return uint32(id), nil
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search songs by title or artist",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			songs, err := apiClient.Songs.Search(context.Background(), strings.Join(args, " "))
			if err != nil {
				fatal("search", err)
			}
			if flagFmt == "table" {
				printSongTable(songs)
				return
			}
			output(songs)
		},
	}
}

func newSongCmd() *cobra.Command {
	var withRelationships bool
	cmd := &cobra.Command{
		Use:   "song <id>",
		Short: "Show a song, optionally with its sample relationships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSongID(args[0])
			if err != nil {
				return err
			}
			ctx := context.Background()

			if withRelationships {
				rels, err := apiClient.Songs.Relationships(ctx, id)
				if err != nil {
					fatal("relationships", err)
				}
				if flagFmt == "table" {
					printRelationshipTable(rels)
					return nil
				}
				output(rels)
				return nil
			}

			song, err := apiClient.Songs.Get(ctx, id)
			if err != nil {
				fatal("song", err)
			}
			if flagFmt == "table" {
				printSongTable([]client.Song{*song})
				return nil
			}
			output(song)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withRelationships, "relationships", false, "List sample and interpolation relationships instead")
	return cmd
}
