// Command upack packs Unity-style asset trees into portable packages,
// unpacks them, and moves them through OCI registries.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
