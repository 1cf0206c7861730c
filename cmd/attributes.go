package main

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var attributesCmd = &cobra.Command{
	Use:   "attributes",
	Short: "Browse the attribute catalog",
}

var attributesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all attributes available to the token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		table, err := client.Attributes(cmd.Context())
		if err != nil {
			return err
		}

		return writeTable(table)
	},
}

var attributesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch one attribute's metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return eris.Wrap(err, "attribute id must be an integer")
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		rec, err := client.AttributeDetail(cmd.Context(), id)
		if err != nil {
			return err
		}

		return writeTable(recordTable(rec))
	},
}

func init() {
	attributesCmd.AddCommand(attributesListCmd)
	attributesCmd.AddCommand(attributesGetCmd)
	rootCmd.AddCommand(attributesCmd)
}
