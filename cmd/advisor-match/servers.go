// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/advisor-match/internal/toolserver"
)

var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "Manage the containerized tool servers",
	Long: `Servers starts and stops the tool-server containers the matching
pipeline depends on (scholar, university, search, document). Configure them
under the "servers" key, one entry per service with an image and host port,
and point "gateway.services" at the resulting endpoints.`,
}

func newSupervisor() (*toolserver.Supervisor, error) {
	rt, err := toolserver.DetectRuntime()
	if err != nil {
		return nil, err
	}
	return toolserver.NewSupervisor(rt, pipelineConfig().Servers, logger), nil
}

var serversUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Start every configured tool server",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSupervisor()
		if err != nil {
			return err
		}
		if err := s.Up(); err != nil {
			return err
		}
		fmt.Println("Tool servers started.")
		return nil
	},
}

var serversDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop every configured tool server",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSupervisor()
		if err != nil {
			return err
		}
		if err := s.Down(); err != nil {
			return err
		}
		fmt.Println("Tool servers stopped.")
		return nil
	},
}

func init() {
	serversCmd.AddCommand(serversUpCmd)
	serversCmd.AddCommand(serversDownCmd)
	rootCmd.AddCommand(serversCmd)
}
