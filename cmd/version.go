package cmd

import (
	"fmt"

	"github.com/brogergvhs/baotang/internal/providers/baotang"

	"github.com/spf13/cobra"
)

var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the baotang version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("baotang version:", Version)
		fmt.Println("source adapter:", baotang.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
