package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrackerCancelAndWait(t *testing.T) {
	t.Run("finishes fast enough", func(t *testing.T) {
		testJobs := Jobs{
			FakeJob("Job A", time.Millisecond*100),
			FakeJob("Job B", time.Millisecond*200),
		}

		before := time.Now()
		unfinished := testJobs.CancelAndWait(time.Second * 1)
		after := time.Now()
		assert.WithinDuration(t, after, before, time.Millisecond*500, "jobs did not finish fast enough")
		assert.Len(t, unfinished, 0)
	})
	t.Run("reports unfinished jobs", func(t *testing.T) {
		testJobs := Jobs{
			FakeJob("Job A", time.Millisecond*100),
			FakeJob("Job B", time.Second*10),
		}

		unfinished := testJobs.CancelAndWait(time.Second * 1)
		assert.Equal(t, []string{"Job B"}, unfinished)
	})
}

func TestGo(t *testing.T) {
	t.Run("finishes when fn returns", func(t *testing.T) {
		job := Go("quick", func(ctx context.Context) error {
			return nil
		})
		select {
		case <-job.Finished():
		case <-time.After(time.Second):
			t.Fatal("job did not finish")
		}
	})
	t.Run("finishes on error", func(t *testing.T) {
		job := Go("failing", func(ctx context.Context) error {
			return errors.New("nope")
		})
		select {
		case <-job.Finished():
		case <-time.After(time.Second):
			t.Fatal("job did not finish")
		}
	})
	t.Run("finishes on panic", func(t *testing.T) {
		job := Go("panicky", func(ctx context.Context) error {
			panic("oh no")
		})
		select {
		case <-job.Finished():
		case <-time.After(time.Second):
			t.Fatal("job did not finish")
		}
	})
	t.Run("canceled through Jobs", func(t *testing.T) {
		job := Go("waiter", func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
		unfinished := Jobs{job}.CancelAndWait(time.Second)
		assert.Empty(t, unfinished)
	})
}

func FakeJob(name string, timeout time.Duration) *Job {
	job := New(name)
	go func() {
		<-job.Ctx.Done()
		timer := time.NewTimer(timeout)
		<-timer.C
		job.Finish()
	}()
	return job
}
