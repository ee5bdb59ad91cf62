package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/fithub/fithub-onboarding/internal/domain/service"
	"github.com/fithub/fithub-onboarding/internal/dto/request"
	"github.com/fithub/fithub-onboarding/internal/dto/response"
	"github.com/fithub/fithub-onboarding/internal/jobs"
)

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	LoginFunc        func(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	RefreshTokenFunc func(ctx context.Context, req *request.RefreshTokenRequest) (*response.AuthResponse, error)
	MeFunc           func(ctx context.Context, userID uint) (*response.UserResponse, error)
}

var _ service.AuthService = (*MockAuthService)(nil)

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return &response.AuthResponse{
		AccessToken:  "mock-access-token",
		RefreshToken: "mock-refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    3600,
		User: response.UserResponse{
			ID:    1,
			Email: req.Email,
			Role:  "user",
		},
	}, nil
}

func (m *MockAuthService) RefreshToken(ctx context.Context, req *request.RefreshTokenRequest) (*response.AuthResponse, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, req)
	}
	return &response.AuthResponse{
		AccessToken:  "mock-new-access-token",
		RefreshToken: "mock-new-refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    3600,
	}, nil
}

func (m *MockAuthService) Me(ctx context.Context, userID uint) (*response.UserResponse, error) {
	if m.MeFunc != nil {
		return m.MeFunc(ctx, userID)
	}
	return &response.UserResponse{ID: userID, Email: "test@example.com", Role: "user"}, nil
}

// MockJobService is an in-memory jobs.Service. Enqueued jobs are recorded
// and a unique key is refused while a job holding it is recorded.
type MockJobService struct {
	mu   sync.Mutex
	jobs []*jobs.JobPayload

	EnqueueErr   error
	StatsFunc    func(ctx context.Context) (jobs.QueueStats, error)
	DeadJobsFunc func(ctx context.Context, limit int) ([]*jobs.JobPayload, error)
	RetryDeadErr error
}

var _ jobs.Service = (*MockJobService)(nil)

func NewMockJobService() *MockJobService {
	return &MockJobService{}
}

func (m *MockJobService) Enqueue(ctx context.Context, jobType string, payload any, opts ...jobs.JobOption) (string, error) {
	if m.EnqueueErr != nil {
		return "", m.EnqueueErr
	}
	job, err := jobs.NewJobPayload(jobType, payload, opts...)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if job.UniqueKey != "" {
		for _, j := range m.jobs {
			if j.UniqueKey == job.UniqueKey {
				return "", jobs.ErrDuplicateJob
			}
		}
	}
	m.jobs = append(m.jobs, job)
	return job.ID, nil
}

// Jobs returns the recorded jobs in enqueue order
func (m *MockJobService) Jobs() []*jobs.JobPayload {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*jobs.JobPayload, len(m.jobs))
	copy(out, m.jobs)
	return out
}

// Drain removes and returns the recorded jobs, releasing their unique keys
func (m *MockJobService) Drain() []*jobs.JobPayload {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.jobs
	m.jobs = nil
	return out
}

func (m *MockJobService) GetJob(ctx context.Context, jobID string) (*jobs.JobPayload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.ID == jobID {
			return j, nil
		}
	}
	return nil, jobs.ErrJobNotFound
}

func (m *MockJobService) Stats(ctx context.Context) (jobs.QueueStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return jobs.QueueStats{
		Pending:    int64(len(m.jobs)),
		QueueSizes: map[string]int64{jobs.PriorityNormal.String(): int64(len(m.jobs))},
	}, nil
}

func (m *MockJobService) DeadJobs(ctx context.Context, limit int) ([]*jobs.JobPayload, error) {
	if m.DeadJobsFunc != nil {
		return m.DeadJobsFunc(ctx, limit)
	}
	return []*jobs.JobPayload{}, nil
}

func (m *MockJobService) RetryDead(ctx context.Context, jobID string) error {
	return m.RetryDeadErr
}

// Common errors for testing
var (
	ErrMockUnavailable   = errors.New("unavailable")
	ErrMockInternalError = errors.New("internal error")
)
