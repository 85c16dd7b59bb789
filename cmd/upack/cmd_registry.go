package main

import (
	"fmt"
	"os"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/spf13/cobra"

	"github.com/meigma/upack"
)

// newRegistryClient is a variable so tests can substitute a client
// backed by an in-memory registry.
var newRegistryClient = func() (*upack.Client, error) {
	return upack.NewClient(
		upack.WithDockerConfig(),
		upack.WithPlainHTTP(plainHTTP),
		upack.WithClientLogger(logger),
	)
}

func runPush(cmd *cobra.Command, args []string) error {
	ref, projectRoot := args[0], args[1]

	client, err := newRegistryClient()
	if err != nil {
		return err
	}

	var desc ocispec.Descriptor
	if exportOutput != "" {
		// Keep the pushed bytes and the written file identical: export
		// once to the file, then push that file.
		res, err := exportToFile(cmd, projectRoot, exportOutput)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Packed %d assets into %s\n", res.Assets, exportOutput)
		desc, err = client.PushFile(cmd.Context(), ref, exportOutput)
		if err != nil {
			return err
		}
	} else {
		desc, err = client.Push(cmd.Context(), ref, projectRoot, exportOptions()...)
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pushed %s\n  digest: %s\n", ref, desc.Digest)

	if len(pushTags) > 0 {
		if err := client.Tag(cmd.Context(), ref, pushTags...); err != nil {
			return err
		}
		for _, tag := range pushTags {
			fmt.Fprintf(cmd.OutOrStdout(), "  tagged: %s\n", tag)
		}
	}
	return nil
}

func runPull(cmd *cobra.Command, args []string) error {
	ref := args[0]

	client, err := newRegistryClient()
	if err != nil {
		return err
	}

	if pullOutput != "" {
		if err := client.PullFile(cmd.Context(), ref, pullOutput); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pulled %s into %s\n", ref, pullOutput)
		return nil
	}

	// Extraction needs a seekable package stream, so stage the pull in a
	// temporary file first.
	tmp, err := os.CreateTemp("", "upack-pull-*.tgz")
	if err != nil {
		return fmt.Errorf("create temp package: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := client.PullFile(cmd.Context(), ref, tmp.Name()); err != nil {
		return err
	}
	f, err := os.Open(tmp.Name())
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := upack.Extract(cmd.Context(), f, pullDir,
		upack.ExtractWithLogger(logger),
	)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pulled %s: %d assets into %s\n", ref, res.Files, pullDir)
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	ref := args[0]

	client, err := newRegistryClient()
	if err != nil {
		return err
	}

	manifest, err := client.Inspect(cmd.Context(), ref)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Reference:  %s\n", ref)
	fmt.Fprintf(out, "Digest:     %s\n", manifest.Digest())
	fmt.Fprintf(out, "Package:    %s (%d bytes)\n", manifest.PackageDescriptor().Digest, manifest.PackageDescriptor().Size)
	if created := manifest.Created(); !created.IsZero() {
		fmt.Fprintf(out, "Created:    %s\n", created.Format("2006-01-02 15:04:05 MST"))
	}
	if count, ok := manifest.AssetCount(); ok {
		fmt.Fprintf(out, "Assets:     %d\n", count)
	}
	return nil
}
