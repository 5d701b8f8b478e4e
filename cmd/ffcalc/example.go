package main

import (
	"fmt"
	"os"

	"github.com/rpgo/financial-freedom/internal/config"
	"github.com/spf13/cobra"
)

func newExampleCmd() *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print an example scenario file",
		// example needs no settings
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := config.NewInputParser().MarshalExample()
			if err != nil {
				return err
			}
			if outFile == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outFile, data, 0o644); err != nil {
				return fmt.Errorf("failed to write example: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example scenario written to %s\n", outFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
