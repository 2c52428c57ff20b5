// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	yaml "go.yaml.in/yaml/v3"

	"github.com/pdiddy/advisor-match/internal/discovery"
	"github.com/pdiddy/advisor-match/internal/enrich"
	"github.com/pdiddy/advisor-match/internal/filter"
	"github.com/pdiddy/advisor-match/internal/gateway"
	"github.com/pdiddy/advisor-match/internal/match"
	"github.com/pdiddy/advisor-match/internal/oracle"
	"github.com/pdiddy/advisor-match/internal/pipeline"
	"github.com/pdiddy/advisor-match/internal/store"
	"github.com/pdiddy/advisor-match/internal/student"
	"github.com/pdiddy/advisor-match/pkg/types"
)

// --- run subcommand ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full advisor-matching session",
	Long: `Run executes the whole matching pipeline: parse any uploaded documents,
discover the university's faculty directories, filter and enrich the
candidates, and rank the best-aligned advisors. Progress and results are
persisted under the session ID so "status" and "results" can read them
later.`,
	RunE: runMatch,
}

func runMatch(cmd *cobra.Command, args []string) error {
	university, _ := cmd.Flags().GetString("university")
	interests, _ := cmd.Flags().GetStringSlice("interest")
	files, _ := cmd.Flags().GetStringSlice("file")
	sessionFlag, _ := cmd.Flags().GetString("session")
	output, _ := cmd.Flags().GetString("output")

	if university == "" || len(interests) == 0 {
		return fmt.Errorf("--university and at least one --interest are required")
	}
	sessionID := uuid.New()
	if sessionFlag != "" {
		var err error
		if sessionID, err = uuid.Parse(sessionFlag); err != nil {
			return fmt.Errorf("invalid --session: %w", err)
		}
	}

	ctx := context.Background()
	controller, st, err := buildController(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Fprintf(os.Stderr, "Session: %s\n", sessionID)
	matches, err := controller.Run(ctx, sessionID, university, interests, files)
	if err != nil {
		return err
	}

	printMatches(matches)
	if output != "" {
		if err := writeResultsYAML(output, sessionID, matches); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Results written to %s\n", output)
	}
	return nil
}

// buildController wires every pipeline stage from configuration.
func buildController(ctx context.Context) (*pipeline.Controller, *store.Store, error) {
	cfg := pipelineConfig()

	st, err := store.Open(cfg.Cache)
	if err != nil {
		return nil, nil, err
	}
	backend, err := oracle.NewGemini(ctx, cfg.Oracle)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	gw := gateway.New(cfg.Gateway, logger)

	controller := pipeline.New(
		discovery.New(gw, logger),
		filter.New(backend, cfg.Match.MaxCandidates, logger),
		student.New(gw, logger),
		enrich.New(gw, backend, st, cfg.Match, logger),
		match.New(gw, backend, cfg.Match.MaxMatches, logger),
		st, logger,
	)
	return controller, st, nil
}

func printMatches(matches []types.MatchResult) {
	if len(matches) == 0 {
		fmt.Println("No matches found.")
		return
	}
	fmt.Fprintf(os.Stdout, "%-4s  %-6s  %-28s  %-24s  %s\n",
		"Rank", "Score", "Name", "Department", "Research areas")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for i, m := range matches {
		areas := strings.Join(m.Professor.ResearchAreas, ", ")
		if len(areas) > 34 {
			areas = areas[:31] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-6.1f  %-28s  %-24s  %s\n",
			i+1, m.MatchScore, m.Professor.Name, m.Professor.Department, areas)
	}
	fmt.Fprintf(os.Stdout, "\n%d matches\n", len(matches))
}

// resultsExport is the YAML document written by --output.
type resultsExport struct {
	SessionID string              `yaml:"session_id"`
	Matches   []types.MatchResult `yaml:"matches"`
}

func writeResultsYAML(path string, sessionID uuid.UUID, matches []types.MatchResult) error {
	doc := resultsExport{SessionID: sessionID.String(), Matches: matches}
	data, err := marshalYAML(doc)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// marshalYAML goes through JSON first so types with custom JSON encodings
// (UUIDs, timestamps) render as scalars instead of raw struct fields.
func marshalYAML(v any) ([]byte, error) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(jsonData, &tree); err != nil {
		return nil, err
	}
	return yaml.Marshal(tree)
}

// --- status subcommand ---

var statusCmd = &cobra.Command{
	Use:   "status [session-id]",
	Short: "Show the progress of a matching session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig()
		st, err := store.Open(cfg.Cache)
		if err != nil {
			return err
		}
		defer st.Close()

		run, err := st.GetRun(context.Background(), args[0])
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("no session %s", args[0])
		}
		fmt.Printf("Status:   %s\n", run.Status)
		fmt.Printf("Progress: %d%%\n", run.Progress)
		fmt.Printf("Step:     %s\n", run.Step)
		if run.Error != "" {
			fmt.Printf("Error:    %s\n", run.Error)
		}
		return nil
	},
}

// --- results subcommand ---

var resultsCmd = &cobra.Command{
	Use:   "results [session-id]",
	Short: "Print the final matches of a completed session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		output, _ := cmd.Flags().GetString("output")

		cfg := pipelineConfig()
		st, err := store.Open(cfg.Cache)
		if err != nil {
			return err
		}
		defer st.Close()

		run, err := st.GetRun(context.Background(), args[0])
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("no session %s", args[0])
		}
		if run.Status != types.RunCompleted {
			return fmt.Errorf("session %s is %s, not completed", args[0], run.Status)
		}

		if output != "" {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid session id: %w", err)
			}
			return writeResultsYAML(output, id, run.Results)
		}
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(run.Results)
		}
		printMatches(run.Results)
		return nil
	},
}

func init() {
	runCmd.Flags().String("university", "", "university URL or hostname (required)")
	runCmd.Flags().StringSlice("interest", nil, "research interest (repeatable, required)")
	runCmd.Flags().StringSlice("file", nil, "path to a CV or transcript to parse (repeatable)")
	runCmd.Flags().String("session", "", "session UUID (default: generated)")
	runCmd.Flags().String("output", "", "write results to a YAML file")

	resultsCmd.Flags().Bool("json", false, "output results as JSON")
	resultsCmd.Flags().String("output", "", "write results to a YAML file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resultsCmd)
}
