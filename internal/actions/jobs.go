package actions

import (
	"context"
	"log"
	"time"

	"wrfcloud/internal/api"
	"wrfcloud/internal/domain/job"
)

const clusterCallTimeout = 2 * time.Minute

// ListJobs returns one job or all jobs.
type ListJobs struct {
	api.ActionBase
	deps *Deps
}

func (a *ListJobs) RequiredFields() []string { return nil }
func (a *ListJobs) OptionalFields() []string { return []string{"job_id"} }

func (a *ListJobs) Perform(rc *api.Context) bool {
	if jobID, ok := api.StringField(rc.Request.Data, "job_id"); ok {
		j, err := a.deps.Jobs.Get(rc.Ctx, jobID)
		if err != nil {
			return a.Fail(msgJobNotFound)
		}
		a.SetResponse(map[string]any{"jobs": []*job.WrfJob{j}})
		return true
	}

	jobs, err := a.deps.Jobs.List(rc.Ctx)
	if err != nil {
		log.Printf("[%s] failed to list jobs: %v", rc.RefID, err)
		return false
	}
	a.SetResponse(map[string]any{"jobs": jobs})
	return true
}

// SubscribeJobs registers the caller's WebSocket connection for job-status
// pushes. Only meaningful on the WebSocket transport.
type SubscribeJobs struct {
	api.ActionBase
	deps *Deps
}

func (a *SubscribeJobs) RequiredFields() []string { return nil }

func (a *SubscribeJobs) Perform(rc *api.Context) bool {
	if rc.WS == nil {
		return a.Fail(msgWebSocketRequired)
	}

	a.deps.Notifier.Subscribe(rc.WS, rc.Email())
	a.SetResponse(map[string]any{"subscribed": true})
	return true
}

// CancelJob marks a job canceled and requests cluster teardown. The
// teardown call is fire-and-forget: the job record is the source of truth
// and the response does not wait on the cluster manager.
type CancelJob struct {
	api.ActionBase
	deps *Deps
}

func (a *CancelJob) RequiredFields() []string { return []string{"job_id"} }

func (a *CancelJob) Perform(rc *api.Context) bool {
	jobID, _ := api.StringField(rc.Request.Data, "job_id")

	j, err := a.deps.Jobs.Get(rc.Ctx, jobID)
	if err != nil {
		return a.Fail(msgJobNotFound)
	}

	if j.Status.Terminal() {
		return a.Fail(msgJobAlreadyFinished)
	}

	j.Status = job.StatusCanceled
	if err := a.deps.Jobs.Update(rc.Ctx, j); err != nil {
		log.Printf("[%s] failed to cancel job %s: %v", rc.RefID, jobID, err)
		return false
	}

	a.deps.Notifier.JobUpdated(j)

	refID := rc.RefID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), clusterCallTimeout)
		defer cancel()
		if err := a.deps.Cluster.DeleteCluster(ctx, clusterName(jobID)); err != nil {
			log.Printf("[%s] cluster teardown for job %s failed: %v", refID, jobID, err)
		}
	}()

	a.SetResponse(map[string]any{"job_id": jobID, "status": j.Status})
	return true
}

// DeleteJob removes a finished job's record and its stored artifacts.
type DeleteJob struct {
	api.ActionBase
	deps *Deps
}

func (a *DeleteJob) RequiredFields() []string { return []string{"job_id"} }

func (a *DeleteJob) Perform(rc *api.Context) bool {
	jobID, _ := api.StringField(rc.Request.Data, "job_id")

	j, err := a.deps.Jobs.Get(rc.Ctx, jobID)
	if err != nil {
		return a.Fail(msgJobNotFound)
	}

	if !j.Status.Terminal() {
		return a.Fail(msgJobStillActive)
	}

	if err := a.deps.Storage.DeleteFolder(rc.Ctx, a.deps.Bucket, jobID+"/"); err != nil {
		log.Printf("[%s] failed to delete artifacts for job %s: %v", rc.RefID, jobID, err)
		return false
	}

	if err := a.deps.Jobs.Delete(rc.Ctx, jobID); err != nil {
		log.Printf("[%s] failed to delete job %s: %v", rc.RefID, jobID, err)
		return false
	}

	a.SetResponse(map[string]any{"job_id": jobID})
	return true
}

func clusterName(jobID string) string {
	return "wrf-" + jobID
}
