package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/provenantdev/provenant/pkg/bundle"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <bundle>",
	Short: "Verify a trust bundle offline",
	Long: `Verifies a sealed trust bundle using only its public contents:
the manifest must parse, every listed file must re-hash to its claimed
content address, and the exported evidence must show a complete run.

No engine, no trust, no authority required.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runVerify(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(path string) int {
	if _, err := os.Stat(path); err != nil {
		fmt.Printf("Error: bundle not found: %s\n", path)
		return 1
	}

	fmt.Printf("Verifying bundle: %s\n", path)
	res, err := bundle.Verify(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	if res.Valid {
		fmt.Println("✓ bundle is valid")
		if len(res.Warnings) > 0 {
			fmt.Println("\nWarnings:")
			for _, w := range res.Warnings {
				fmt.Printf("  - %s\n", w)
			}
		}
		return 0
	}

	fmt.Println("✗ bundle is invalid")
	fmt.Println("\nErrors:")
	for _, e := range res.Errors {
		fmt.Printf("  - %s\n", e)
	}
	return 1
}
