package cmd

import (
	"fmt"

	"whats-poppin/pkg/database"
	"whats-poppin/pkg/utils"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the database schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(database.Up), string(database.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := utils.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			direction := database.Direction(args[0])
			if err := database.Migrate(config.Database, direction); err != nil {
				return err
			}

			fmt.Printf("migrate %s: done\n", direction)
			return nil
		},
	}
}
