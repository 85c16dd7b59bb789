package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meigma/upack"
)

// exportOptions translates the shared export flags into Export options.
func exportOptions() []upack.ExportOption {
	opts := []upack.ExportOption{
		upack.ExportWithLogger(logger),
	}
	if len(exportIncludes) > 0 {
		opts = append(opts, upack.ExportWithPatterns(exportIncludes...))
	}
	if len(exportExcludes) > 0 {
		opts = append(opts, upack.ExportWithExclude(exportExcludes...))
	}
	if exportNoDeps {
		opts = append(opts, upack.ExportWithoutDependencies())
	}
	if exportRootFolder != "" {
		opts = append(opts, upack.ExportWithRootFolder(exportRootFolder))
	}
	if exportIndexCache != "" {
		opts = append(opts, upack.ExportWithIndexSnapshot(exportIndexCache))
	}
	return opts
}

// exportToFile exports projectRoot into a package file at path, removing
// the file again when the export fails.
func exportToFile(cmd *cobra.Command, projectRoot, path string) (*upack.ExportResult, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	res, err := upack.Export(cmd.Context(), projectRoot, f, exportOptions()...)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return res, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	res, err := exportToFile(cmd, args[0], exportOutput)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Packed %d assets into %s", res.Assets, exportOutput)
	if res.Skipped > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), " (%d skipped)", res.Skipped)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
