package main

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/wbrown/janus-minicon/datalog/storage"
	"github.com/wbrown/janus-minicon/datalog/testcase"
)

// NewPrefsCommand creates the prefs command group.
func NewPrefsCommand(_ *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage preference sets in a preference database",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return errors.New("--db is required")
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "preference database directory")

	cmd.AddCommand(newPrefsImportCommand(&dbPath))
	cmd.AddCommand(newPrefsShowCommand(&dbPath))
	cmd.AddCommand(newPrefsDeleteCommand(&dbPath))

	return cmd
}

func newPrefsImportCommand(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import the preference sets of a YAML or XML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ids, err := testcase.ImportPreferences(store, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d preference sets: %s\n", len(ids), strings.Join(ids, ", "))
			return nil
		},
	}
}

func newPrefsShowCommand(dbPath *string) *cobra.Command {
	var set string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List the stored sets, or the ranks of one set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			store, err := storage.Open(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if set == "" {
				sets, err := store.Sets()
				if err != nil {
					return err
				}
				for _, s := range sets {
					fmt.Fprintln(out, s)
				}
				return nil
			}

			t, err := store.Table(set)
			if err != nil {
				return err
			}
			for _, v := range t.Views() {
				rank, _ := t.Rank(v)
				fmt.Fprintf(out, "%s\t%g\n", v, rank)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&set, "set", "", "preference set id")

	return cmd
}

func newPrefsDeleteCommand(dbPath *string) *cobra.Command {
	var set string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a preference set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if set == "" {
				return errors.New("--set is required")
			}
			store, err := storage.Open(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()
			return store.DeleteSet(set)
		},
	}
	cmd.Flags().StringVar(&set, "set", "", "preference set id")

	return cmd
}
