package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/brogergvhs/baotang/internal/config"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var flagYes bool

func init() {
	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the Default config",
		RunE: func(cmd *cobra.Command, args []string) error {
			defaultPath := config.ConfigPathByLabel(config.DefaultLabel)

			if _, err := os.Stat(defaultPath); err == nil {
				fmt.Println("Configuration already exists at:")
				fmt.Println("  ", defaultPath)
				fmt.Println("Use `baotang config reset` to recreate it.")
				return nil
			}

			fmt.Println("Configuration file will be saved at:")
			fmt.Println("  ", defaultPath)
			fmt.Println()
			fmt.Println("Default configuration:")
			config.DefaultConfig().Print()
			fmt.Println()

			if !flagYes {
				prompt := promptui.Prompt{
					Label:     "Create Default config",
					IsConfirm: true,
				}
				if _, err := prompt.Run(); err != nil {
					fmt.Println("Aborted.")
					return nil
				}
			}

			path, err := config.InitDefaultConfig()
			if errors.Is(err, os.ErrExist) {
				fmt.Println("Configuration already exists at:", path)
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			fmt.Println("Config created at:", path)
			fmt.Printf("This config is now active (label: %s).\n", config.DefaultLabel)
			return nil
		},
	}
	configInitCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "do not ask for confirmation")

	configCmd.AddCommand(configInitCmd)
}
