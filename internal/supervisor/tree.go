package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay, in seconds.
	FailureDecay float64

	// FailureBackoff is the duration to wait when threshold is exceeded.
	FailureBackoff time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns production-ready defaults, matching suture's own
// built-in defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// pipelineTreeConfig tightens restart backoff for the audio pipeline: a
// dropout should recover fast, so failures decay quicker and the backoff
// window is short relative to the jobs layer.
func pipelineTreeConfig(base TreeConfig) TreeConfig {
	cfg := base
	cfg.FailureBackoff = 2 * time.Second
	cfg.FailureDecay = 10.0
	return cfg
}

// SupervisorTree manages the hierarchical supervisor structure for the player core.
//
// The tree has two layers beneath the root:
//   - pipeline: the producer loop and the consumer loop. Tight restart backoff,
//     since an audible dropout should recover as fast as possible.
//   - jobs: services added with AddJobsService (the engine adds none). Looser
//     backoff, since a stalled background job is not audible.
//
// This separation means a wedged cache refresh cannot take down playback, and
// a decoder panic cannot take down an in-progress library scan.
type SupervisorTree struct {
	root     *suture.Supervisor
	pipeline *suture.Supervisor
	jobs     *suture.Supervisor
	logger   *slog.Logger
	config   TreeConfig
}

// NewSupervisorTree creates a new supervisor tree with the given configuration.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	if config.FailureThreshold == 0 {
		config.FailureThreshold = 5.0
	}
	if config.FailureDecay == 0 {
		config.FailureDecay = 30.0
	}
	if config.FailureBackoff == 0 {
		config.FailureBackoff = 15 * time.Second
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	// MustHook has a pointer receiver; take the address of the literal.
	handler := &sutureslog.Handler{Logger: logger}
	eventHook := handler.MustHook()

	rootSpec := suture.Spec{
		EventHook:        eventHook,
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}

	pipelineCfg := pipelineTreeConfig(config)
	pipelineSpec := suture.Spec{
		FailureThreshold: pipelineCfg.FailureThreshold,
		FailureDecay:     pipelineCfg.FailureDecay,
		FailureBackoff:   pipelineCfg.FailureBackoff,
		Timeout:          pipelineCfg.ShutdownTimeout,
	}

	jobsSpec := suture.Spec{
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}

	root := suture.New("player-core", rootSpec)
	pipeline := suture.New("pipeline", pipelineSpec)
	jobs := suture.New("jobs", jobsSpec)

	root.Add(pipeline)
	root.Add(jobs)

	return &SupervisorTree{
		root:     root,
		pipeline: pipeline,
		jobs:     jobs,
		logger:   logger,
		config:   config,
	}, nil
}

// Root returns the root supervisor for direct access if needed.
func (t *SupervisorTree) Root() *suture.Supervisor {
	return t.root
}

// AddPipelineService adds a service to the pipeline supervisor.
// Use this for the producer loop and the consumer loop.
func (t *SupervisorTree) AddPipelineService(svc suture.Service) suture.ServiceToken {
	return t.pipeline.Add(svc)
}

// AddJobsService adds a service to the jobs supervisor.
// Use this for the worker pool (cache refresh, directory scans, tag loading).
func (t *SupervisorTree) AddJobsService(svc suture.Service) suture.ServiceToken {
	return t.jobs.Add(svc)
}

// RemoveJobsService removes a service from the jobs supervisor.
func (t *SupervisorTree) RemoveJobsService(token suture.ServiceToken) error {
	return t.jobs.Remove(token)
}

// Serve starts the supervisor tree and blocks until the context is canceled.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground starts the supervisor tree in a background goroutine.
// Returns a channel that receives the error (or nil) when the supervisor stops.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport returns information about services that failed to
// stop within the configured shutdown timeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}

// Remove removes a service added directly to the root supervisor. Tokens
// returned by AddPipelineService and AddJobsService belong to the child
// supervisors, and root rejects them with suture.ErrWrongSupervisor.
func (t *SupervisorTree) Remove(token suture.ServiceToken) error {
	return t.root.Remove(token)
}

// RemoveAndWait removes a service added directly to the root supervisor and
// waits for it to fully stop; child-supervisor tokens are rejected as in Remove.
func (t *SupervisorTree) RemoveAndWait(token suture.ServiceToken, timeout time.Duration) error {
	return t.root.RemoveAndWait(token, timeout)
}
