package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			h, err := apiClient.Health(context.Background())
			if err != nil {
				fatal("health", err)
			}
			if flagFmt == "table" {
				formatTable([]string{"STATUS", "VERSION", "CACHE", "BACKEND", "UPTIME"}, [][]string{{
					h.Status, h.Version, h.Cache, h.CacheBackend, strconv.FormatFloat(h.UptimeSeconds, 'f', 0, 64) + "s",
				}})
				return
			}
			output(h)
		},
	}
}

func newServerVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server-version",
		Short: "Print the server's major API version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			major, err := apiClient.Version(context.Background())
			if err != nil {
				fatal("version", err)
			}
			fmt.Println(major)
		},
	}
}
