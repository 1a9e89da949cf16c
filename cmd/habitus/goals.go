package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/arnold/habitus-api/internal/store"
	"github.com/spf13/cobra"
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Inspect the local goal store",
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the stored goal collection as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		local, closeKV, err := openLocalStore(cmd.Context(), cfg, openRedis(cfg))
		if err != nil {
			return err
		}
		defer closeKV()

		return exportGoals(cmd, local, cmd.OutOrStdout())
	},
}

func init() {
	goalsCmd.AddCommand(exportCmd)
}

func exportGoals(cmd *cobra.Command, local *store.Local, w io.Writer) error {
	list, err := local.Load(cmd.Context())
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode goals: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
