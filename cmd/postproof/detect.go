package main

import (
	"fmt"

	"postproof/internal/domain"

	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect <url>",
	Short: "Print the platform and normalized form of a post URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	platform, err := domain.DetectPlatform(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", platform, domain.NormalizeURL(args[0]))
	return nil
}
