package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	verbose bool

	exportOutput     string
	exportIncludes   []string
	exportExcludes   []string
	exportNoDeps     bool
	exportRootFolder string
	exportIndexCache string

	extractDir string

	pushTags []string

	pullOutput string
	pullDir    string

	plainHTTP bool

	rootCmd = &cobra.Command{
		Use:           "upack",
		Short:         "Package, extract, and distribute Unity-style asset trees",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))
		},
	}

	exportCmd = &cobra.Command{
		Use:   "export <project-root>",
		Short: "Pack selected assets and their dependencies into a package file",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport, // Defined in cmd_export.go
	}

	extractCmd = &cobra.Command{
		Use:   "extract <package>",
		Short: "Unpack a package file into a directory",
		Args:  cobra.ExactArgs(1),
		RunE:  runExtract, // Defined in cmd_extract.go
	}

	listCmd = &cobra.Command{
		Use:   "list <package>",
		Short: "List the identifier and path of every asset in a package file",
		Args:  cobra.ExactArgs(1),
		RunE:  runList, // Defined in cmd_extract.go
	}

	inspectCmd = &cobra.Command{
		Use:   "inspect <ref>",
		Short: "Show the manifest of a package in a registry",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect, // Defined in cmd_registry.go
	}

	pushCmd = &cobra.Command{
		Use:   "push <ref> <project-root>",
		Short: "Export a project and push the package to a registry",
		Args:  cobra.ExactArgs(2),
		RunE:  runPush, // Defined in cmd_registry.go
	}

	pullCmd = &cobra.Command{
		Use:   "pull <ref>",
		Short: "Pull a package from a registry to a file or directory",
		Args:  cobra.ExactArgs(1),
		RunE:  runPull, // Defined in cmd_registry.go
	}
)

// logger is installed by the root PersistentPreRun before any RunE fires.
var logger *slog.Logger

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "package file to write (required)")
	exportCmd.Flags().StringArrayVarP(&exportIncludes, "include", "i", nil, "glob of files to pack (repeatable, default everything)")
	exportCmd.Flags().StringArrayVarP(&exportExcludes, "exclude", "x", nil, "glob of files to skip (repeatable)")
	exportCmd.Flags().BoolVar(&exportNoDeps, "no-deps", false, "pack only the selected files, without dependency resolution")
	exportCmd.Flags().StringVar(&exportRootFolder, "root-folder", "", "top-level folder recorded in package paths")
	exportCmd.Flags().StringVar(&exportIndexCache, "index-cache", "", "index snapshot file to reuse between exports")
	_ = exportCmd.MarkFlagRequired("output")

	extractCmd.Flags().StringVarP(&extractDir, "dir", "d", "", "directory to extract into (required)")
	_ = extractCmd.MarkFlagRequired("dir")

	pushCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "also write the package to this file")
	pushCmd.Flags().StringArrayVarP(&exportIncludes, "include", "i", nil, "glob of files to pack (repeatable, default everything)")
	pushCmd.Flags().StringArrayVarP(&exportExcludes, "exclude", "x", nil, "glob of files to skip (repeatable)")
	pushCmd.Flags().BoolVar(&exportNoDeps, "no-deps", false, "pack only the selected files, without dependency resolution")
	pushCmd.Flags().StringVar(&exportRootFolder, "root-folder", "", "top-level folder recorded in package paths")
	pushCmd.Flags().StringArrayVar(&pushTags, "tag", nil, "additional tag to apply (repeatable)")
	pushCmd.Flags().BoolVar(&plainHTTP, "plain-http", false, "use plain HTTP for the registry")

	pullCmd.Flags().StringVarP(&pullOutput, "output", "o", "", "package file to write")
	pullCmd.Flags().StringVarP(&pullDir, "dir", "d", "", "directory to extract into")
	pullCmd.Flags().BoolVar(&plainHTTP, "plain-http", false, "use plain HTTP for the registry")
	pullCmd.MarkFlagsOneRequired("output", "dir")
	pullCmd.MarkFlagsMutuallyExclusive("output", "dir")

	inspectCmd.Flags().BoolVar(&plainHTTP, "plain-http", false, "use plain HTTP for the registry")

	rootCmd.AddCommand(exportCmd, extractCmd, listCmd, inspectCmd, pushCmd, pullCmd)
}
