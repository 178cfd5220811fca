package actions

import (
	"context"
	"sync"
	"testing"
	"time"

	"golang.org/x/net/websocket"

	"wrfcloud/internal/api"
	"wrfcloud/internal/auth"
	"wrfcloud/internal/cluster"
	"wrfcloud/internal/domain/job"
	"wrfcloud/internal/domain/modelconfig"
	"wrfcloud/internal/domain/user"
	"wrfcloud/internal/repository/memory"
	apperrors "wrfcloud/pkg/errors"
	"wrfcloud/pkg/mailer/providers"
	"wrfcloud/pkg/password"
)

// Test fixture defaults. The bcrypt hash is precomputed once per test run
// because hashing at cost 12 is deliberately slow.
const (
	testEmail        = "forecaster@example.com"
	testAdminEmail   = "admin@example.com"
	testPassword     = "correct-horse-battery"
	testAppURL       = "https://wrf.example.com"
	testBucket       = "wrfcloud-test-data"
	testConfigName   = "caribbean-6km"
	validForecastLen = 24 * 3600
	validOutputFreq  = 3600
)

var (
	testHashOnce sync.Once
	testHash     string
)

func passwordHash(t *testing.T) string {
	t.Helper()
	testHashOnce.Do(func() {
		h, err := password.Hash(testPassword)
		if err != nil {
			t.Fatalf("failed to hash fixture password: %v", err)
		}
		testHash = h
	})
	return testHash
}

// mailRecorder captures outgoing mail instead of delivering it.
type mailRecorder struct {
	sent []*providers.EmailData
}

func (m *mailRecorder) Send(data *providers.EmailData) (*providers.EmailResult, error) {
	m.sent = append(m.sent, data)
	return &providers.EmailResult{Success: true}, nil
}

// storeRecorder is an in-memory object store.
type storeRecorder struct {
	objects map[string][]byte
	deleted []string
}

func newStoreRecorder() *storeRecorder {
	return &storeRecorder{objects: make(map[string][]byte)}
}

func (s *storeRecorder) GetObject(_ context.Context, bucket, key string) ([]byte, error) {
	body, ok := s.objects[bucket+"/"+key]
	if !ok {
		return nil, apperrors.NotFound("object not found")
	}
	return body, nil
}

func (s *storeRecorder) DeleteFolder(_ context.Context, bucket, prefix string) error {
	s.deleted = append(s.deleted, bucket+"/"+prefix)
	return nil
}

// clusterRecorder captures cluster calls. Callers fire them in goroutines,
// so every access is mutex-guarded and tests wait on waitCreated/waitDeleted.
type clusterRecorder struct {
	mu             sync.Mutex
	created        []cluster.CreateRequest
	deleted        []string
	err            error
	describeStatus string
}

func (c *clusterRecorder) CreateCluster(_ context.Context, req cluster.CreateRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.created = append(c.created, req)
	return c.err
}

func (c *clusterRecorder) DeleteCluster(_ context.Context, clusterName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, clusterName)
	return c.err
}

func (c *clusterRecorder) DescribeCluster(_ context.Context, clusterName string) (*cluster.Description, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	status := c.describeStatus
	if status == "" {
		status = cluster.StatusRunning
	}
	return &cluster.Description{ClusterName: clusterName, Status: status}, nil
}

func (c *clusterRecorder) waitCreated(t *testing.T, n int) []cluster.CreateRequest {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		if len(c.created) >= n {
			out := append([]cluster.CreateRequest(nil), c.created...)
			c.mu.Unlock()
			return out
		}
		c.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d cluster creations", n)
	return nil
}

func (c *clusterRecorder) waitDeleted(t *testing.T, n int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		if len(c.deleted) >= n {
			out := append([]string(nil), c.deleted...)
			c.mu.Unlock()
			return out
		}
		c.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d cluster deletions", n)
	return nil
}

// notifyRecorder captures job update fan-out.
type notifyRecorder struct {
	mu      sync.Mutex
	updates []*job.WrfJob
}

func (n *notifyRecorder) Subscribe(_ *websocket.Conn, _ string) {}

func (n *notifyRecorder) JobUpdated(j *job.WrfJob) {
	n.mu.Lock()
	defer n.mu.Unlock()
	copied := *j
	n.updates = append(n.updates, &copied)
}

func (n *notifyRecorder) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.updates)
}

type fixture struct {
	deps     *Deps
	users    *memory.UserRepo
	jobs     *memory.JobRepo
	configs  *memory.ModelConfigRepo
	mail     *mailRecorder
	store    *storeRecorder
	cluster  *clusterRecorder
	notifier *notifyRecorder
	tokens   *auth.TokenService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users:    memory.NewUserRepo(),
		jobs:     memory.NewJobRepo(),
		configs:  memory.NewModelConfigRepo(),
		mail:     &mailRecorder{},
		store:    newStoreRecorder(),
		cluster:  &clusterRecorder{},
		notifier: &notifyRecorder{},
		tokens:   auth.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), time.Hour, 24*time.Hour),
	}
	f.deps = &Deps{
		Users:        f.users,
		Jobs:         f.jobs,
		ModelConfigs: f.configs,
		Tokens:       f.tokens,
		Mail:         f.mail,
		Storage:      f.store,
		Cluster:      f.cluster,
		Notifier:     f.notifier,
		Bucket:       testBucket,
		AppURL:       testAppURL,
	}
	return f
}

func (f *fixture) addUser(t *testing.T, email, role string, active bool) *user.User {
	t.Helper()
	u := &user.User{
		Email:        email,
		FullName:     "Test User",
		RoleID:       role,
		PasswordHash: passwordHash(t),
		Active:       active,
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return u
}

func (f *fixture) addJob(t *testing.T, jobID string, status job.Status) *job.WrfJob {
	t.Helper()
	j := &job.WrfJob{
		JobID:          jobID,
		Name:           "Test Forecast",
		Configuration:  testConfigName,
		CycleTime:      time.Unix(1756700400, 0).UTC(),
		ForecastLength: validForecastLen,
		OutputFreq:     validOutputFreq,
		Status:         status,
		UserEmail:      testEmail,
	}
	if err := f.jobs.Create(context.Background(), j); err != nil {
		t.Fatalf("failed to seed job %s: %v", jobID, err)
	}
	return j
}

func (f *fixture) addConfig(t *testing.T, name string, cores int) {
	t.Helper()
	mc := &modelconfig.ModelConfig{
		Name:        name,
		Description: "Test configuration",
		DomainSize:  6000,
		Cores:       cores,
	}
	if err := f.configs.Create(context.Background(), mc); err != nil {
		t.Fatalf("failed to seed model configuration %s: %v", name, err)
	}
}

// waitFor polls a condition until it holds or a short deadline passes.
func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// rc builds an action context for a caller with the given identity. An
// empty email means anonymous.
func rc(email, role string, data map[string]any) *api.Context {
	req := &api.Request{Action: "test", Data: data, ClientIP: "127.0.0.1"}
	ctx := &api.Context{
		Ctx:      context.Background(),
		Request:  req,
		ClientIP: req.ClientIP,
		RefID:    "deadbeef",
	}
	if email != "" {
		ctx.Claims = &auth.Claims{Role: role}
		ctx.Claims.Subject = email
	}
	return ctx
}
