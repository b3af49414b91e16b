package scheduler

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/jeysi05/pickle-jar-courts/internal/logger"
)

var (
	ErrEmptyJobName  = errors.New("job name is required")
	ErrEmptyCronExpr = errors.New("cron expression is required")
)

// Scheduler runs the background jobs of the API process.
type Scheduler struct {
	scheduler gocron.Scheduler
	stopOnce  sync.Once
	stopErr   error
}

// New creates a scheduler whose cron expressions are read in loc.
func New(loc *time.Location) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	sched, err := gocron.NewScheduler(
		gocron.WithLocation(loc),
		gocron.WithGlobalJobOptions(
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					logger.Error("scheduler job panicked",
						"job_id", jobID.String(),
						"job_name", jobName,
						"panic", recoverData,
					)
				}),
			),
		),
	)
	if err != nil {
		return nil, err
	}
	return &Scheduler{scheduler: sched}, nil
}

func (s *Scheduler) Start() {
	logger.Info("scheduler starting", "jobs", len(s.scheduler.Jobs()))
	s.scheduler.Start()
}

// Stop shuts the scheduler down and waits for running jobs. It is safe to
// call more than once.
func (s *Scheduler) Stop() error {
	s.stopOnce.Do(func() {
		logger.Info("scheduler stopping")
		s.stopErr = s.scheduler.Shutdown()
	})
	return s.stopErr
}

// AddJob registers a cron job.
func (s *Scheduler) AddJob(name, cronExpr string, task func()) (gocron.Job, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyJobName
	}
	if strings.TrimSpace(cronExpr) == "" {
		return nil, ErrEmptyCronExpr
	}
	jobLogger := logger.WithFields(map[string]interface{}{"job_name": name, "cron": cronExpr})

	wrapped := func() {
		jobLogger.Debug("scheduler job started")
		task()
		jobLogger.Debug("scheduler job completed")
	}

	job, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(wrapped),
		gocron.WithName(name),
	)
	if err != nil {
		jobLogger.Error("failed to register scheduler job", "error", err)
		return nil, err
	}
	jobLogger.Info("scheduler job registered")
	return job, nil
}
