// Package scheduler triggers batch insight generation at fixed hours of the
// day.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"trendpulse/internal/logger"
)

// Runner is the batch job the scheduler fires.
type Runner interface {
	RunAll(ctx context.Context) error
}

// Scheduler runs the batch job once per configured hour, on the hour.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	hours  string
}

// New creates a scheduler firing at the given comma-separated hours,
// e.g. "9,15,21".
func New(runner Runner, hours string) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		hours:  hours,
	}
}

// Start registers the cron entry and begins scheduling. Invalid hour
// configurations are rejected before anything is scheduled.
func (s *Scheduler) Start() error {
	spec, err := cronSpec(s.hours)
	if err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return fmt.Errorf("failed to register schedule %q: %w", spec, err)
	}

	s.cron.Start()
	logger.Info("scheduler started", "hours", s.hours)
	return nil
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("scheduler stopped")
}

func (s *Scheduler) runOnce() {
	if err := s.runner.RunAll(context.Background()); err != nil {
		logger.Error("scheduled insight generation failed", err)
	}
}

// cronSpec converts an hour list such as "9,15,21" into a cron expression
// firing at minute zero of each hour.
func cronSpec(hours string) (string, error) {
	hours = strings.TrimSpace(hours)
	if hours == "" {
		return "", fmt.Errorf("scheduler hours must not be empty")
	}

	parts := strings.Split(hours, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		hour, err := strconv.Atoi(part)
		if err != nil || hour < 0 || hour > 23 {
			return "", fmt.Errorf("invalid scheduler hour %q", part)
		}
		cleaned = append(cleaned, strconv.Itoa(hour))
	}

	return fmt.Sprintf("0 %s * * *", strings.Join(cleaned, ",")), nil
}
