// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/advisor-match/internal/store"
)

var professorsCmd = &cobra.Command{
	Use:   "professors",
	Short: "Manage cached professor profiles",
	Long: `Professors inspects and maintains the local profile cache. Enrichment
fills the cache during matching runs; "list" shows the fresh profiles for a
university and "prune" drops everything past its TTL.`,
}

var professorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fresh cached profiles for a university",
	RunE: func(cmd *cobra.Command, args []string) error {
		university, _ := cmd.Flags().GetString("university")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		if university == "" {
			return fmt.Errorf("--university is required")
		}

		st, err := store.Open(pipelineConfig().Cache)
		if err != nil {
			return err
		}
		defer st.Close()

		profiles, err := st.ListProfessors(context.Background(), university)
		if err != nil {
			return err
		}
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(profiles)
		}
		if len(profiles) == 0 {
			fmt.Println("No cached profiles.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-28s  %-24s  %-12s  %-5s  %s\n",
			"Name", "Department", "Scholar ID", "Pubs", "Updated")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
		for _, p := range profiles {
			fmt.Fprintf(os.Stdout, "%-28s  %-24s  %-12s  %-5d  %s\n",
				p.Name, p.Department, p.ScholarID, len(p.Publications),
				p.LastUpdated.Format("2006-01-02"))
		}
		fmt.Fprintf(os.Stdout, "\n%d profiles\n", len(profiles))
		return nil
	},
}

var professorsShowCmd = &cobra.Command{
	Use:   "show [scholar-id]",
	Short: "Print a cached profile by scholar ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(pipelineConfig().Cache)
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := st.GetProfessorByScholarID(context.Background(), args[0])
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("no fresh cached profile for scholar id %s", args[0])
		}
		data, err := marshalYAML(p)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var professorsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete cached profiles past their TTL",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(pipelineConfig().Cache)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.PruneProfessors(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Pruned %d stale profile(s)\n", n)
		return nil
	},
}

func init() {
	professorsListCmd.Flags().String("university", "", "university URL as stored in the cache")
	professorsListCmd.Flags().Bool("json", false, "output profiles as JSON")

	professorsCmd.AddCommand(professorsListCmd)
	professorsCmd.AddCommand(professorsShowCmd)
	professorsCmd.AddCommand(professorsPruneCmd)
	rootCmd.AddCommand(professorsCmd)
}
