package main

import (
	"fmt"
	"os"

	"github.com/crucial707/listing-admin/cmd/cli/audit"
	"github.com/crucial707/listing-admin/cmd/cli/auth"
	"github.com/crucial707/listing-admin/cmd/cli/listings"
	"github.com/crucial707/listing-admin/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	listings.InitListings(rootCmd)
	audit.InitAudit(rootCmd)

	// Execute the root Cobra command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
