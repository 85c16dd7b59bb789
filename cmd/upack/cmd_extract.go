package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/meigma/upack"
)

func runExtract(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	res, err := upack.Extract(cmd.Context(), f, extractDir,
		upack.ExtractWithLogger(logger),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d assets into %s", res.Files, extractDir)
	if res.Skipped > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), " (%d skipped)", res.Skipped)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	entries, err := upack.Decode(f)
	if err != nil {
		return err
	}

	guids := make([]string, 0, len(entries))
	for guid := range entries {
		guids = append(guids, guid)
	}
	sort.Slice(guids, func(i, j int) bool {
		return entries[guids[i]].Path < entries[guids[j]].Path
	})

	for _, guid := range guids {
		path := entries[guid].Path
		if path == "" {
			path = "(no pathname)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", guid, path)
	}
	return nil
}
