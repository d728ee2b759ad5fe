package main

import (
	"context"
	"log/slog"

	"github.com/fieldgate/loa-worker/internal/actions"
	"github.com/fieldgate/loa-worker/internal/audit"
	"github.com/fieldgate/loa-worker/internal/cases"
	"github.com/fieldgate/loa-worker/internal/config"
	"github.com/fieldgate/loa-worker/internal/infrastructure"
	"github.com/fieldgate/loa-worker/internal/llm"
	"github.com/fieldgate/loa-worker/internal/pipeline"
)

// runtime bundles the started infrastructure and wired domain
// systems for a single command invocation.
type runtime struct {
	infra        *infrastructure.Infrastructure
	cfg          *config.Config
	cases        cases.System
	audit        audit.System
	service      llm.Service
	orchestrator *pipeline.Orchestrator
}

// setup initializes infrastructure and wires the pipeline. The
// caller must invoke teardown when finished.
func setup(cfg *config.Config) (*runtime, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	if err := infra.Start(); err != nil {
		return nil, err
	}
	infra.Lifecycle.WaitForStartup()

	db := infra.Database.Connection()
	caseSystem := cases.New(db, infra.Logger)
	auditSystem := audit.New(db, infra.Logger)
	service := buildService(cfg, infra.Logger)

	router := actions.NewRouter(
		actions.NewCaseHandler(caseSystem, auditSystem, infra.Logger),
		actions.NewTaskHandler(caseSystem, auditSystem, infra.Logger),
		actions.NewFollowupHandler(caseSystem, auditSystem, service, infra.Outbox, infra.Logger),
		infra.Logger,
	)

	orchestrator := pipeline.NewOrchestrator(
		service,
		caseSystem,
		router,
		pipeline.NewPreFilter(&cfg.Filter),
		infra.Logger,
	)

	return &runtime{
		infra:        infra,
		cfg:          cfg,
		cases:        caseSystem,
		audit:        auditSystem,
		service:      service,
		orchestrator: orchestrator,
	}, nil
}

func (r *runtime) teardown() {
	if err := r.infra.Lifecycle.Shutdown(r.cfg.ShutdownTimeoutDuration()); err != nil {
		r.infra.Logger.Error("shutdown incomplete", "error", err)
	}
}

func (r *runtime) context() context.Context {
	return r.infra.Lifecycle.Context()
}

// buildService selects the Service implementation from configuration.
// Provider selection happens once at startup.
func buildService(cfg *config.Config, logger *slog.Logger) llm.Service {
	if cfg.Agent.Provider == llm.ProviderScripted {
		return llm.NewScripted(logger)
	}
	return llm.NewClient(&cfg.Agent, logger)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
