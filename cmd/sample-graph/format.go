package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sample-graph/sample-graph-api/client"
)

func formatJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode json: %v\n", err)
		os.Exit(1)
	}
}

func formatTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", w, cell)
		}
		fmt.Println(strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

func songID(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

func printSongTable(songs []client.Song) {
	rows := make([][]string, 0, len(songs))
	for _, s := range songs {
		rows = append(rows, []string{songID(s.ID), s.Title, s.ArtistName})
	}
	formatTable([]string{"ID", "TITLE", "ARTIST"}, rows)
}

func printRelationshipTable(rels []client.Relationship) {
	rows := make([][]string, 0, len(rels))
	for _, r := range rels {
		rows = append(rows, []string{r.Type, songID(r.Song.ID), r.Song.Title, r.Song.ArtistName})
	}
	formatTable([]string{"RELATIONSHIP", "ID", "TITLE", "ARTIST"}, rows)
}

// printGraphTable lists each edge by song title, followed by a node count.
func printGraphTable(g *client.Graph) {
	label := func(i int) string {
		if i < 0 || i >= len(g.Nodes) {
			return "#" + strconv.Itoa(i)
		}
		s := g.Nodes[i].Song
		return s.Title + " (" + s.ArtistName + ")"
	}

	degree := func(i int) string {
		if i < 0 || i >= len(g.Nodes) {
			return "?"
		}
		return strconv.Itoa(g.Nodes[i].Degree)
	}

	rows := make([][]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		rows = append(rows, []string{label(e.Source), e.Type, label(e.Target), degree(e.Target)})
	}
	formatTable([]string{"FROM", "RELATIONSHIP", "TO", "DEGREE"}, rows)
	fmt.Printf("\n%d songs, %d relationships\n", len(g.Nodes), len(g.Edges))
}

func output(v any) {
	formatJSON(v)
}
