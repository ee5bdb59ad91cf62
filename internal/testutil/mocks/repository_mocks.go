package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fithub/fithub-onboarding/internal/domain/dao"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/domain/repository"
)

// MockUserRepository is an in-memory UserRepository. It enforces the same
// unique constraints as the real stores.
type MockUserRepository struct {
	mu     sync.RWMutex
	users  map[uint]*entity.User
	nextID uint

	// Error injection
	CreateErr        error
	GetByIDErr       error
	GetByEmailErr    error
	GetByAppIDErr    error
	ExistsByEmailErr error
	UpdateErr        error
	ListErr          error
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[uint]*entity.User),
		nextID: 1,
	}
}

func (r *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return dao.ErrDuplicateKey
		}
		if user.TrainerApplicationID != nil && u.TrainerApplicationID != nil &&
			*u.TrainerApplicationID == *user.TrainerApplicationID {
			return dao.ErrDuplicateKey
		}
	}
	user.ID = r.nextID
	r.nextID++
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *MockUserRepository) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	if r.GetByIDErr != nil {
		return nil, r.GetByIDErr
	}
	return r.find(func(u *entity.User) bool { return u.ID == id }), nil
}

func (r *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if r.GetByEmailErr != nil {
		return nil, r.GetByEmailErr
	}
	return r.find(func(u *entity.User) bool { return u.Email == email }), nil
}

func (r *MockUserRepository) GetByTrainerApplicationID(ctx context.Context, applicationID uint) (*entity.User, error) {
	if r.GetByAppIDErr != nil {
		return nil, r.GetByAppIDErr
	}
	return r.find(func(u *entity.User) bool {
		return u.TrainerApplicationID != nil && *u.TrainerApplicationID == applicationID
	}), nil
}

func (r *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if r.ExistsByEmailErr != nil {
		return false, r.ExistsByEmailErr
	}
	return r.find(func(u *entity.User) bool { return u.Email == email }) != nil, nil
}

func (r *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	if r.UpdateErr != nil {
		return r.UpdateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		stored := *user
		r.users[user.ID] = &stored
	}
	return nil
}

func (r *MockUserRepository) List(ctx context.Context, page, size int) ([]*entity.User, int64, error) {
	if r.ListErr != nil {
		return nil, 0, r.ListErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		c := *u
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return pageOf(all, page, size), int64(len(all)), nil
}

// Count returns the number of stored users
func (r *MockUserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func (r *MockUserRepository) find(match func(*entity.User) bool) *entity.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			c := *u
			return &c
		}
	}
	return nil
}

// MockTrainerApplicationRepository is an in-memory TrainerApplicationRepository.
// Transition holds the write lock for the check and the update, so it is as
// atomic as the conditional UPDATE it stands in for.
type MockTrainerApplicationRepository struct {
	mu     sync.RWMutex
	apps   map[uint]*entity.TrainerApplication
	nextID uint

	// Error injection
	CreateErr         error
	GetByIDErr        error
	TransitionErr     error
	ListErr           error
	MarkDispatchedErr error
	LinkTrainerErr    error

	// TransitionCalls counts Transition invocations
	TransitionCalls int
}

var _ repository.TrainerApplicationRepository = (*MockTrainerApplicationRepository)(nil)

func NewMockTrainerApplicationRepository() *MockTrainerApplicationRepository {
	return &MockTrainerApplicationRepository{
		apps:   make(map[uint]*entity.TrainerApplication),
		nextID: 1,
	}
}

func (r *MockTrainerApplicationRepository) Create(ctx context.Context, app *entity.TrainerApplication) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app.ID = r.nextID
	r.nextID++
	now := time.Now()
	app.CreatedAt, app.UpdatedAt = now, now
	stored := *app
	r.apps[app.ID] = &stored
	return nil
}

func (r *MockTrainerApplicationRepository) GetByID(ctx context.Context, id uint) (*entity.TrainerApplication, error) {
	if r.GetByIDErr != nil {
		return nil, r.GetByIDErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if app, ok := r.apps[id]; ok {
		c := *app
		return &c, nil
	}
	return nil, nil
}

func (r *MockTrainerApplicationRepository) GetLatestByEmail(ctx context.Context, email string) (*entity.TrainerApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *entity.TrainerApplication
	for _, app := range r.apps {
		if app.Email != email {
			continue
		}
		if latest == nil || app.AppliedAt.After(latest.AppliedAt) ||
			(app.AppliedAt.Equal(latest.AppliedAt) && app.ID > latest.ID) {
			latest = app
		}
	}
	if latest == nil {
		return nil, nil
	}
	c := *latest
	return &c, nil
}

func (r *MockTrainerApplicationRepository) HasPending(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, app := range r.apps {
		if app.Email == email && app.IsPending() {
			return true, nil
		}
	}
	return false, nil
}

func (r *MockTrainerApplicationRepository) List(ctx context.Context, filter dao.ApplicationFilter) ([]*entity.TrainerApplication, int64, error) {
	if r.ListErr != nil {
		return nil, 0, r.ListErr
	}
	r.mu.RLock()
	matched := make([]*entity.TrainerApplication, 0, len(r.apps))
	for _, app := range r.apps {
		if filter.Status == "" || app.Status == filter.Status {
			c := *app
			matched = append(matched, &c)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.AppliedAt.Equal(b.AppliedAt) {
			if filter.Ascending {
				return a.AppliedAt.Before(b.AppliedAt)
			}
			return a.AppliedAt.After(b.AppliedAt)
		}
		if filter.Ascending {
			return a.ID < b.ID
		}
		return a.ID > b.ID
	})
	return pageOf(matched, filter.Page, filter.Size), int64(len(matched)), nil
}

func (r *MockTrainerApplicationRepository) Transition(ctx context.Context, id uint, review entity.Review) (*entity.TrainerApplication, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.TransitionCalls++
	if r.TransitionErr != nil {
		return nil, false, r.TransitionErr
	}
	app, ok := r.apps[id]
	if !ok {
		return nil, false, nil
	}
	applied := false
	if app.IsPending() {
		review.Apply(app)
		app.UpdatedAt = time.Now()
		applied = true
	}
	c := *app
	return &c, applied, nil
}

func (r *MockTrainerApplicationRepository) ListAwaitingActivation(ctx context.Context, limit int) ([]*entity.TrainerApplication, error) {
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.TrainerApplication
	for _, app := range r.apps {
		if app.AwaitingActivation() {
			c := *app
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MockTrainerApplicationRepository) MarkDispatched(ctx context.Context, id uint, at time.Time) (bool, error) {
	if r.MarkDispatchedErr != nil {
		return false, r.MarkDispatchedErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok || !app.AwaitingActivation() {
		return false, nil
	}
	app.ActivationDispatchedAt = &at
	return true, nil
}

func (r *MockTrainerApplicationRepository) LinkTrainer(ctx context.Context, id uint, userID uint) error {
	if r.LinkTrainerErr != nil {
		return r.LinkTrainerErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if app, ok := r.apps[id]; ok {
		app.TrainerUserID = &userID
	}
	return nil
}

func (r *MockTrainerApplicationRepository) CountByStatus(ctx context.Context) (map[entity.ApplicationStatus]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := map[entity.ApplicationStatus]int64{
		entity.ApplicationPending:  0,
		entity.ApplicationApproved: 0,
		entity.ApplicationRejected: 0,
	}
	for _, app := range r.apps {
		counts[app.Status]++
	}
	return counts, nil
}

// Put stores an application as-is, keeping its ID and status
func (r *MockTrainerApplicationRepository) Put(app *entity.TrainerApplication) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if app.ID == 0 {
		app.ID = r.nextID
	}
	if app.ID >= r.nextID {
		r.nextID = app.ID + 1
	}
	stored := *app
	r.apps[app.ID] = &stored
}

func pageOf[T any](items []T, page, size int) []T {
	if page <= 0 || size <= 0 {
		return items
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
