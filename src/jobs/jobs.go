package jobs

import (
	"context"
	"time"

	"github.com/biznex/bizconsole/src/logging"
	"github.com/biznex/bizconsole/src/utils"
	"github.com/rs/zerolog"
)

/*
 * Background tasks of the console (the HTTP server, the session loader, the
 * event broadcaster) run as Jobs so they can be canceled together and shut
 * down gracefully.
 */

// A Job tracks the completion of a background task. Code outside the job calls
// Cancel and waits on Finished; the job itself watches Canceled and calls
// Finish when its work is done.
type Job struct {
	Name   string
	Ctx    context.Context
	Logger zerolog.Logger
	cancel func()
	done   chan struct{}
}

func New(name string) *Job {
	return NewWithContext(context.Background(), name)
}

func NewWithContext(parent context.Context, name string) *Job {
	logger := logging.With().Str("job", name).Logger()
	ctx, cancel := context.WithCancel(parent)
	ctx = logging.AttachLoggerToContext(&logger, ctx)
	return &Job{
		Name:   name,
		Ctx:    ctx,
		Logger: logger,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Go starts fn on a new goroutine as a Job. The job is finished when fn
// returns. A returned error or a panic is logged with the job's logger.
func Go(name string, fn func(ctx context.Context) error) *Job {
	job := New(name)
	go func() {
		defer job.Finish()
		var err error
		func() {
			defer utils.RecoverPanicAsError(&err)
			err = fn(job.Ctx)
		}()
		if err != nil && job.Ctx.Err() == nil {
			job.Logger.Error().Err(err).Msg("job failed")
		}
	}()
	return job
}

// Sends a cancel signal to the Job. Internally, this cancels the Job's context.
func (j *Job) Cancel() {
	j.cancel()
}

func (j *Job) Canceled() <-chan struct{} {
	return j.Ctx.Done()
}

// Marks the Job as finished. Expected to be called by the job code itself.
func (j *Job) Finish() *Job {
	close(j.done)
	return j
}

func (j *Job) Finished() <-chan struct{} {
	return j.done
}

// Jobs is a plain slice, so it can be built with normal slice syntax.
type Jobs []*Job

// Cancels all tracked jobs, giving them a chance to finish gracefully. Returns
// when all jobs finish or when the timeout expires, whichever comes first,
// with the names of the jobs that did not finish on time.
func (jobs Jobs) CancelAndWait(timeout time.Duration) []string {
	allDoneChan := make(chan struct{})
	for _, job := range jobs {
		job.Cancel()
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	go func() {
		for _, job := range jobs {
			<-job.Finished()
		}
		close(allDoneChan)
	}()

	select {
	case <-timer.C:
		return jobs.ListUnfinished()
	case <-allDoneChan:
		return nil
	}
}

func (jobs Jobs) ListUnfinished() []string {
	unfinished := []string{}
	for _, job := range jobs {
		select {
		case <-job.Finished():
			continue
		default:
			unfinished = append(unfinished, job.Name)
		}
	}
	return unfinished
}
