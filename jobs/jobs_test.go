package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halocare/halocare-admin/internal/dashboard"
	jobmetrics "github.com/halocare/halocare-admin/internal/jobs"
	"github.com/halocare/halocare-admin/internal/platform/cache"
)

type refresherStub struct {
	calls int
	err   error
}

func (r *refresherStub) Refresh(ctx context.Context) (dashboard.Summary, error) {
	r.calls++
	if _, ok := ctx.Deadline(); !ok {
		return dashboard.Summary{}, errors.New("warmup must run with a deadline")
	}
	return dashboard.Summary{PendingTransfers: 2}, r.err
}

type observerSpy struct {
	tasks []string
	errs  []error
}

func (o *observerSpy) ObserveJob(task string, err error) {
	o.tasks = append(o.tasks, task)
	o.errs = append(o.errs, err)
}

func TestDashboardWarmupTask(t *testing.T) {
	task, err := NewDashboardWarmupTask(DashboardWarmupPayload{Reason: "manual"})
	require.NoError(t, err)
	assert.Equal(t, TaskDashboardWarmup, task.Type())

	var payload DashboardWarmupPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "manual", payload.Reason)
}

func TestDashboardWarmupJobRefreshes(t *testing.T) {
	refresher := &refresherStub{}
	obs := &observerSpy{}
	job := NewDashboardWarmupJob(refresher, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()), obs)
	task, err := NewDashboardWarmupTask(DashboardWarmupPayload{})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, 1, refresher.calls)
	assert.Equal(t, []string{TaskDashboardWarmup}, obs.tasks)
	assert.Nil(t, obs.errs[0])
}

func TestDashboardWarmupJobReportsFailure(t *testing.T) {
	boom := errors.New("backend down")
	obs := &observerSpy{}
	job := NewDashboardWarmupJob(&refresherStub{err: boom}, nil, nil, obs)

	err := job.Handle(context.Background(), asynq.NewTask(TaskDashboardWarmup, nil))
	assert.ErrorIs(t, err, boom)
	require.Len(t, obs.errs, 1)
	assert.ErrorIs(t, obs.errs[0], boom)
}

func TestDashboardWarmupJobSkipsMalformedPayload(t *testing.T) {
	refresher := &refresherStub{}
	job := NewDashboardWarmupJob(refresher, nil, nil, nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskDashboardWarmup, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Zero(t, refresher.calls)
}

func TestUnconfiguredWarmupJob(t *testing.T) {
	var job *DashboardWarmupJob
	assert.Error(t, job.Handle(context.Background(), asynq.NewTask(TaskDashboardWarmup, nil)))
}

type inspectorStub struct {
	info *asynq.QueueInfo
	err  error
}

func (s inspectorStub) GetQueueInfo(string) (*asynq.QueueInfo, error) { return s.info, s.err }

func healthResponse(t *testing.T, inspector QueueInspector) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	NewHandler(inspector, nil).MountRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	return rec
}

func TestHealthReportsQueueDepth(t *testing.T) {
	rec := healthResponse(t, inspectorStub{info: &asynq.QueueInfo{Queue: QueueDefault, Size: 4, Pending: 3, Retry: 1}})

	require.Equal(t, http.StatusOK, rec.Code)
	var stats QueueStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, QueueStats{Queue: QueueDefault, Size: 4, Pending: 3, Retry: 1}, stats)
}

func TestHealthUnknownQueueIsEmpty(t *testing.T) {
	rec := healthResponse(t, inspectorStub{err: asynq.ErrQueueNotFound})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"queue":"default","size":0,"pending":0,"active":0,"scheduled":0,"retry":0,"archived":0,"failedToday":0,"paused":false}`, rec.Body.String())
}

func TestHealthInspectorFailure(t *testing.T) {
	rec := healthResponse(t, inspectorStub{err: errors.New("redis gone")})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRedisOptCarriesSharedSettings(t *testing.T) {
	opt := RedisOpt(cache.Options{Addr: "redis:6379", Password: "pw", DB: 2, PoolSize: 4})
	assert.Equal(t, asynq.RedisClientOpt{Addr: "redis:6379", Password: "pw", DB: 2, PoolSize: 4}, opt)
}
