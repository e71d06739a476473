package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/UnknownOlympus/geodist/internal/config"
	"github.com/UnknownOlympus/geodist/internal/geocoding"
	"github.com/UnknownOlympus/geodist/internal/metrics"
	"github.com/UnknownOlympus/geodist/internal/models"
	"github.com/UnknownOlympus/geodist/internal/repository"
)

// batchSize is the maximum number of tasks fetched per polling round.
const batchSize = 100

// DistanceService periodically resolves pending task addresses and records
// their great-circle distance from the configured origin.
type DistanceService struct {
	log           *slog.Logger
	repo          repository.Interface
	provider      geocoding.Provider
	providerName  string // label for provider metrics
	metrics       *metrics.Metrics
	numWorkers    int
	pollInterval  time.Duration
	addressPrefix string // prepended to every address (country, city, etc.)
	distance      config.DistanceConfig
}

// NewDistanceService creates a new instance of DistanceService.
func NewDistanceService(
	log *slog.Logger,
	repo repository.Interface,
	provider geocoding.Provider,
	providerName string,
	metrics *metrics.Metrics,
	numWorkers int,
	pollInterval time.Duration,
	addressPrefix string,
	distance config.DistanceConfig,
) *DistanceService {
	return &DistanceService{
		log:           log,
		repo:          repo,
		provider:      provider,
		providerName:  providerName,
		metrics:       metrics,
		numWorkers:    numWorkers,
		pollInterval:  pollInterval,
		addressPrefix: addressPrefix,
		distance:      distance,
	}
}

// Run polls for pending tasks every poll interval until ctx is cancelled.
// It returns only after the batch in progress, if any, has been handled.
func (ds *DistanceService) Run(ctx context.Context) {
	ticker := time.NewTicker(ds.pollInterval)
	defer ticker.Stop()

	ds.log.InfoContext(ctx, "Distance service started",
		"origin_lat", ds.distance.Origin.Latitude,
		"origin_lon", ds.distance.Origin.Longitude,
		"unit", ds.distance.Unit.String())

	for {
		select {
		case <-ctx.Done():
			ds.log.InfoContext(ctx, "Distance service stopped.")
			return
		case <-ticker.C:
			ds.log.InfoContext(ctx, "Polling for pending tasks...")
			ds.processTasks(ctx)
		}
	}
}

// processTasks fetches one batch of pending tasks and fans it out to the worker pool.
func (ds *DistanceService) processTasks(ctx context.Context) {
	tasks, err := ds.repo.FetchPendingTasks(ctx, batchSize)
	if err != nil {
		ds.log.ErrorContext(ctx, "Failed to fetch tasks", "error", err)
		return
	}
	if len(tasks) == 0 {
		ds.log.InfoContext(ctx, "No tasks to process.")
		return
	}

	ds.log.InfoContext(ctx, "Found tasks to process. Starting worker pool.",
		"jobs", len(tasks), "num_workers", ds.numWorkers)

	jobs := make(chan models.Task, len(tasks))
	var wg sync.WaitGroup

	for i := 1; i <= ds.numWorkers; i++ {
		wg.Add(1)
		go ds.worker(ctx, i, &wg, jobs)
	}

	for _, task := range tasks {
		jobs <- task
	}
	close(jobs)

	wg.Wait()
	ds.log.InfoContext(ctx, "Processing batch finished")
}

func (ds *DistanceService) worker(ctx context.Context, idx int, wg *sync.WaitGroup, jobs <-chan models.Task) {
	defer wg.Done()
	for task := range jobs {
		ds.metrics.ActiveWorkers.Inc()
		ds.handle(ctx, idx, task)
		ds.metrics.ActiveWorkers.Dec()
	}
}

// handle geocodes one task, measures its distance from the origin and stores
// the result, or records the failure against the task.
func (ds *DistanceService) handle(ctx context.Context, idx int, task models.Task) {
	ds.log.DebugContext(ctx, "Processing task", "worker", idx, "task", task.ID)

	start := time.Now()
	point, err := ds.provider.Geocode(ctx, ds.addressPrefix+task.Address)
	ds.metrics.RequestSeconds.WithLabelValues(ds.providerName).Observe(time.Since(start).Seconds())

	if err != nil {
		ds.log.ErrorContext(ctx, "Failed to geocode", "worker", idx, "task", task.ID, "error", err)
		ds.metrics.APIErrors.Inc()
		ds.fail(ctx, idx, task.ID, err.Error())
		return
	}

	unit := ds.distance.Unit
	dist := ds.distance.Origin.DistanceTo(point, unit)

	if math.IsNaN(dist) {
		ds.log.WarnContext(ctx, "Provider returned unusable coordinates", "worker", idx, "task", task.ID,
			"lat", point.Latitude, "lon", point.Longitude)
		ds.fail(ctx, idx, task.ID, fmt.Sprintf("invalid coordinates %v,%v", point.Latitude, point.Longitude))
		return
	}

	if ds.distance.MaxDistance > 0 && dist > ds.distance.MaxDistance {
		ds.log.WarnContext(ctx, "Task is out of range", "worker", idx, "task", task.ID,
			"distance", dist, "limit", ds.distance.MaxDistance, "unit", unit.String())
		ds.metrics.OutOfRange.Inc()
		ds.fail(ctx, idx, task.ID,
			fmt.Sprintf("distance %.3f %s exceeds limit %.3f %s", dist, unit, ds.distance.MaxDistance, unit))
		return
	}

	loc := models.Location{TaskID: task.ID, Point: point, Distance: dist, Unit: unit}
	if err = ds.repo.SaveLocation(ctx, loc); err != nil {
		ds.log.ErrorContext(ctx, "Failed to save location for task", "worker", idx, "task", task.ID, "error", err)
		ds.metrics.TaskProcessed.WithLabelValues("failure").Inc()
		return
	}

	ds.metrics.TaskProcessed.WithLabelValues("success").Inc()
	ds.metrics.Distance.WithLabelValues(unit.String()).Observe(dist)
	ds.log.DebugContext(ctx, "Worker successfully processed the task",
		"worker", idx, "task", task.ID, "distance", dist, "unit", unit.String())
}

func (ds *DistanceService) fail(ctx context.Context, idx, taskID int, reason string) {
	ds.metrics.TaskProcessed.WithLabelValues("failure").Inc()

	if err := ds.repo.IncrementFailureCount(ctx, taskID, reason); err != nil {
		ds.log.ErrorContext(ctx, "Could not update failure count for task",
			"worker", idx, "task", taskID, "error", err)
	}
}
