package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rummi-companion/internal/vision"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List photo scanning providers",
	Long:  `Shows the vision providers that vision.provider can name.`,
	Args:  cobra.NoArgs,
	Run:   runProviders,
}

func runProviders(_ *cobra.Command, _ []string) {
	providers := vision.List()

	fmt.Println("Vision providers:")
	fmt.Println()

	// Calculate column widths
	maxLen := 4 // "Name" header
	for _, p := range providers {
		if len(p.Name) > maxLen {
			maxLen = len(p.Name)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxLen, "----", "-----------")
	for _, p := range providers {
		marker := " "
		if p.Name == cfg.Vision.Provider {
			marker = "*"
		}
		fmt.Printf("%s %-*s  %s\n", marker, maxLen, p.Name, p.Description)
	}

	fmt.Println()
	fmt.Println("* configured provider")
}
