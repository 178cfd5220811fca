package actions

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"wrfcloud/internal/api"
	"wrfcloud/internal/cluster"
	"wrfcloud/internal/domain/job"
	"wrfcloud/pkg/validator"
)

// RunWrf creates a forecast job record and triggers cluster creation. The
// dispatcher returns as soon as the record is stored; cluster progress is
// observed later through ListJobs or a WebSocket subscription.
type RunWrf struct {
	api.ActionBase
	deps *Deps
}

func (a *RunWrf) RequiredFields() []string {
	return []string{
		"job_name",
		"configuration_name",
		"start_time",
		"forecast_length",
		"output_frequency",
		"notify",
	}
}

func (a *RunWrf) Perform(rc *api.Context) bool {
	name, _ := api.StringField(rc.Request.Data, "job_name")
	configName, _ := api.StringField(rc.Request.Data, "configuration_name")
	startTime, _ := api.Int64Field(rc.Request.Data, "start_time")
	forecastLength, _ := api.IntField(rc.Request.Data, "forecast_length")
	outputFreq, _ := api.IntField(rc.Request.Data, "output_frequency")
	notify, _ := api.BoolField(rc.Request.Data, "notify")

	if err := validator.JobName(name); err != nil {
		return a.Fail(err.Error())
	}
	if err := validator.StartTime(startTime); err != nil {
		return a.Fail(err.Error())
	}
	if err := validator.ForecastLength(forecastLength); err != nil {
		return a.Fail(err.Error())
	}
	if err := validator.OutputFrequency(outputFreq); err != nil {
		return a.Fail(err.Error())
	}

	mc, err := a.deps.ModelConfigs.Get(rc.Ctx, configName)
	if err != nil {
		return a.Fail(msgUnknownConfiguration)
	}

	j := &job.WrfJob{
		JobID:          uuid.NewString(),
		Name:           name,
		Configuration:  mc.Name,
		CycleTime:      time.Unix(startTime, 0).UTC(),
		ForecastLength: forecastLength,
		OutputFreq:     outputFreq,
		Status:         job.StatusLaunched,
		UserEmail:      rc.Email(),
		Notify:         notify,
	}

	if err := a.deps.Jobs.Create(rc.Ctx, j); err != nil {
		log.Printf("[%s] failed to create job record: %v", rc.RefID, err)
		return false
	}

	a.deps.Notifier.JobUpdated(j)

	refID := rc.RefID
	deps := a.deps
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), clusterCallTimeout)
		defer cancel()
		err := deps.Cluster.CreateCluster(ctx, cluster.CreateRequest{
			ClusterName: clusterName(j.JobID),
			JobID:       j.JobID,
			Cores:       mc.Cores,
		})
		if err == nil {
			watchClusterStartup(ctx, deps, refID, j)
			return
		}
		log.Printf("[%s] cluster creation for job %s failed: %v", refID, j.JobID, err)
		j.Status = job.StatusFailed
		if err := deps.Jobs.Update(ctx, j); err != nil {
			log.Printf("[%s] failed to mark job %s failed: %v", refID, j.JobID, err)
			return
		}
		deps.Notifier.JobUpdated(j)
	}()

	a.SetResponse(map[string]any{"job_id": j.JobID})
	return true
}

// clusterPollInterval is how often a launched job checks on its cluster.
var clusterPollInterval = 15 * time.Second

// watchClusterStartup polls the cluster manager until the compute nodes
// are up, then advances the job so subscribers see progress before the
// model itself starts reporting. Transient describe failures are
// retried on the next tick; the context bounds the whole watch.
func watchClusterStartup(ctx context.Context, deps *Deps, refID string, j *job.WrfJob) {
	ticker := time.NewTicker(clusterPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[%s] gave up waiting for cluster of job %s: %v", refID, j.JobID, ctx.Err())
			return
		case <-ticker.C:
		}

		desc, err := deps.Cluster.DescribeCluster(ctx, clusterName(j.JobID))
		if err != nil {
			log.Printf("[%s] describe cluster for job %s failed: %v", refID, j.JobID, err)
			continue
		}
		if desc.Status != cluster.StatusRunning {
			continue
		}

		// The job may have been canceled while the cluster came up.
		current, err := deps.Jobs.Get(ctx, j.JobID)
		if err != nil || current.Status.Terminal() {
			return
		}

		j.Status = job.StatusStarting
		if err := deps.Jobs.Update(ctx, j); err != nil {
			log.Printf("[%s] failed to advance job %s: %v", refID, j.JobID, err)
			return
		}
		deps.Notifier.JobUpdated(j)
		return
	}
}

// GetWrfMetaData returns the layer metadata of a finished job.
type GetWrfMetaData struct {
	api.ActionBase
	deps *Deps
}

func (a *GetWrfMetaData) RequiredFields() []string { return []string{"job_id"} }

func (a *GetWrfMetaData) Perform(rc *api.Context) bool {
	jobID, _ := api.StringField(rc.Request.Data, "job_id")

	j, err := a.deps.Jobs.Get(rc.Ctx, jobID)
	if err != nil {
		return a.Fail(msgJobNotFound)
	}

	if j.Status != job.StatusDone {
		return a.Fail(msgJobNotFinished)
	}

	a.SetResponse(map[string]any{
		"job_id":     j.JobID,
		"cycle_time": j.CycleTime.Unix(),
		"layers":     j.Layers,
	})
	return true
}

// GetWrfGeoJson fetches one gzipped GeoJSON artifact from the object
// store and returns it base64-encoded.
type GetWrfGeoJson struct {
	api.ActionBase
	deps *Deps
}

func (a *GetWrfGeoJson) RequiredFields() []string {
	return []string{"job_id", "valid_time", "variable"}
}

func (a *GetWrfGeoJson) Perform(rc *api.Context) bool {
	jobID, _ := api.StringField(rc.Request.Data, "job_id")
	validTime, _ := api.Int64Field(rc.Request.Data, "valid_time")
	variable, _ := api.StringField(rc.Request.Data, "variable")

	j, err := a.deps.Jobs.Get(rc.Ctx, jobID)
	if err != nil {
		return a.Fail(msgJobNotFound)
	}

	if j.Status != job.StatusDone {
		return a.Fail(msgJobNotFinished)
	}

	key := fmt.Sprintf("%s/%s_%d.geojson.gz", j.JobID, variable, validTime)
	body, err := a.deps.Storage.GetObject(rc.Ctx, a.deps.Bucket, key)
	if err != nil {
		log.Printf("[%s] failed to fetch %s: %v", rc.RefID, key, err)
		return a.Fail(msgForecastDataNotFound)
	}

	a.SetResponse(map[string]any{
		"job_id":     j.JobID,
		"variable":   variable,
		"valid_time": validTime,
		"geojson":    base64.StdEncoding.EncodeToString(body),
	})
	return true
}
