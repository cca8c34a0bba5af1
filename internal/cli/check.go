package cli

import (
	"context"
	"fmt"
	"io"
	"time"
)

// CheckOptions holds configuration for the check command
type CheckOptions struct {
	LoadOptions
	Require []string
	Workers int
}

// ProfileJob is one profile set to load
type ProfileJob struct {
	Profiles string
}

// CheckResult represents the outcome of loading one profile set
type CheckResult struct {
	Profiles string
	Files    int
	Error    error
	Duration time.Duration
}

// CheckRun loads the configuration once per profile set, in parallel, and
// reports which sets load and validate. It fails if any set fails.
func CheckRun(ctx context.Context, opts CheckOptions, profileSets []string, out io.Writer) error {
	if len(profileSets) == 0 {
		return fmt.Errorf("no profile sets given")
	}

	fmt.Fprintf(out, "Found %d profile sets to check.\n", len(profileSets))

	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = 4
	}
	jobs := make(chan ProfileJob, len(profileSets))
	results := make(chan CheckResult, len(profileSets))

	for i := 0; i < numWorkers; i++ {
		go profileWorker(ctx, jobs, results, opts)
	}

	for _, profiles := range profileSets {
		jobs <- ProfileJob{Profiles: profiles}
	}
	close(jobs)

	var failures []CheckResult
	for i := 0; i < len(profileSets); i++ {
		result := <-results
		if result.Error == nil {
			fmt.Fprintf(out, "[%d/%d] ✅ %s (%d files, %.1fs)\n",
				i+1, len(profileSets), result.Profiles, result.Files, result.Duration.Seconds())
		} else {
			failures = append(failures, result)
			fmt.Fprintf(out, "[%d/%d] ❌ %s (%.1fs): %v\n",
				i+1, len(profileSets), result.Profiles, result.Duration.Seconds(), result.Error)
		}
	}

	fmt.Fprintf(out, "\n✅ Successful: %d\n", len(profileSets)-len(failures))
	if len(failures) > 0 {
		fmt.Fprintf(out, "❌ Failed: %d\n", len(failures))
		return fmt.Errorf("%d of %d profile sets failed", len(failures), len(profileSets))
	}
	return nil
}

// profileWorker loads each job with its own manager, so concurrent loads
// never share a registry.
func profileWorker(ctx context.Context, jobs <-chan ProfileJob, results chan<- CheckResult, opts CheckOptions) {
	for job := range jobs {
		startTime := time.Now()

		manager := newManager(opts.LoadOptions, RequiredKeys(opts.Require), job.Profiles)
		_, err := manager.Load(ctx)

		results <- CheckResult{
			Profiles: job.Profiles,
			Files:    len(manager.Files()),
			Error:    err,
			Duration: time.Since(startTime),
		}
	}
}
