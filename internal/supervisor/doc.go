/*
Package supervisor provides process supervision for the player core using
suture v4. It implements a hierarchical supervisor tree that manages the
lifecycle of the two audio threads and of any service added to its jobs
layer, giving
each the Erlang/OTP-style guarantee that a panic is caught, logged, and
restarted rather than taking the whole process down.

# Overview

	SupervisorTree ("player-core")
	├── pipeline ("pipeline")
	│   ├── producer loop
	│   └── consumer loop
	└── jobs ("jobs")
	    └── services added with AddJobsService (the engine adds none)

This separation ensures that:
  - A decoder panic in the producer doesn't take down a running library scan
  - A wedged cache refresh can't stall audio output
  - Each layer restarts independently, with its own failure counter

# Key Features

Automatic Restart:
  - Crashed services are automatically restarted
  - Exponential backoff prevents restart storms
  - Configurable failure thresholds and decay rates

Failure Isolation:
  - The pipeline and jobs supervisors count failures independently
  - A child supervisor's failures don't propagate upward unless it exceeds
    its own threshold

Graceful Shutdown:
  - Context cancellation triggers orderly shutdown
  - Configurable shutdown timeout per service
  - UnstoppedServiceReport for debugging hangs

Structured Logging:
  - Integration with slog for structured events
  - Logs service starts, stops, failures, and restarts
  - Event hooks via the sutureslog adapter

# Usage Example

	func main() {
	    logger := slog.Default()
	    config := supervisor.DefaultTreeConfig()

	    tree, err := supervisor.NewSupervisorTree(logger, config)
	    if err != nil {
	        log.Fatal(err)
	    }

	    tree.AddPipelineService(producerService)
	    tree.AddPipelineService(consumerService)
	    tree.AddJobsService(workerPoolService)

	    ctx := context.Background()
	    if err := tree.Serve(ctx); err != nil {
	        log.Printf("supervisor stopped: %v", err)
	    }
	}

Background operation:

	errChan := tree.ServeBackground(ctx)
	// do other setup...
	if err := <-errChan; err != nil {
	    log.Printf("supervisor error: %v", err)
	}

# Configuration

The TreeConfig controls restart behavior for the root and jobs supervisors:

	config := supervisor.TreeConfig{
	    FailureThreshold: 5.0,
	    FailureDecay:     30.0,
	    FailureBackoff:   15 * time.Second,
	    ShutdownTimeout:  10 * time.Second,
	}

The pipeline supervisor derives its own, tighter backoff from this config
(see pipelineTreeConfig): a short FailureBackoff and fast FailureDecay, since
an audio dropout should recover in well under a second, not fifteen.

# Failure Handling

Each supervisor uses a failure counter with exponential decay:

 1. Each service failure increments the counter
 2. The counter decays exponentially over time (FailureDecay seconds)
 3. When the counter exceeds FailureThreshold, the supervisor enters backoff
 4. During backoff, restarts are delayed by FailureBackoff duration

# Service Interface

All services must implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return behavior:
  - Return nil: service stopped cleanly, will not be restarted
  - Return error: service crashed, will be restarted
  - Context canceled: shutdown requested, return promptly

# Debugging Shutdown Issues

If services don't stop within the timeout:

	report, err := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    log.Printf("service didn't stop: %v", svc)
	}

# Thread Safety

SupervisorTree is safe for concurrent use: services can be added from any
goroutine, and Remove/RemoveAndWait are synchronized by the underlying
suture supervisors.
*/
package supervisor
