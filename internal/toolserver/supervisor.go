// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolserver

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/pdiddy/advisor-match/pkg/types"
)

// defaultContainerPort is where the tool servers listen inside their
// containers unless configured otherwise.
const defaultContainerPort = 8000

// Supervisor owns the lifecycle of the configured tool-server containers.
type Supervisor struct {
	rt      Runtime
	servers map[string]types.ToolServerConfig
	log     *zap.Logger
}

// NewSupervisor returns a Supervisor over the given runtime and server
// set.
func NewSupervisor(rt Runtime, servers map[string]types.ToolServerConfig, logger *zap.Logger) *Supervisor {
	return &Supervisor{rt: rt, servers: servers, log: logger}
}

// ContainerName returns the container name used for a service.
func ContainerName(service string) string {
	return "advisor-match-" + service
}

// serviceNames returns the configured services sorted, so start order is
// deterministic.
func (s *Supervisor) serviceNames() []string {
	names := make([]string, 0, len(s.servers))
	for name := range s.servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Up verifies every configured image and starts each server detached.
// On a start failure the servers already started are stopped again, so
// Up either brings the whole set up or leaves nothing running.
func (s *Supervisor) Up() error {
	if len(s.servers) == 0 {
		return fmt.Errorf("no tool servers configured")
	}

	names := s.serviceNames()
	for _, name := range names {
		if err := s.rt.ImageExists(s.servers[name].Image); err != nil {
			return err
		}
	}

	var started []string
	for _, name := range names {
		cfg := s.servers[name]
		containerPort := cfg.ContainerPort
		if containerPort == 0 {
			containerPort = defaultContainerPort
		}
		if err := s.rt.StartDetached(ContainerName(name), cfg.Image, cfg.Port, containerPort); err != nil {
			for _, prev := range started {
				if stopErr := s.rt.Stop(ContainerName(prev)); stopErr != nil {
					s.log.Warn("toolserver: rollback stop failed",
						zap.String("service", prev), zap.Error(stopErr))
				}
			}
			return err
		}
		started = append(started, name)
		s.log.Info("toolserver: started",
			zap.String("service", name),
			zap.String("image", cfg.Image),
			zap.Int("port", cfg.Port))
	}
	return nil
}

// Down stops every configured server, continuing past individual
// failures and returning them combined.
func (s *Supervisor) Down() error {
	var errs error
	for _, name := range s.serviceNames() {
		if err := s.rt.Stop(ContainerName(name)); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		s.log.Info("toolserver: stopped", zap.String("service", name))
	}
	return errs
}
