package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yoockh/devconnector/internal/auth"
	"github.com/yoockh/devconnector/internal/models"
	"github.com/yoockh/devconnector/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStore = errors.New("store unavailable")

// fakeProfileRepo keeps profiles in memory keyed by owner. Upsert holds the lock
// for the whole read-modify-write, matching the store's atomic upsert.
type fakeProfileRepo struct {
	mu        sync.Mutex
	byUser    map[string]*models.Profile
	inserts   int
	saves     int
	getErr    error
	saveErr   error
	upsertErr error
	deleteErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byUser: map[string]*models.Profile{}}
}

func clone(p *models.Profile) *models.Profile {
	c := *p
	c.Skills = append([]string{}, p.Skills...)
	c.Experience = append([]models.Experience{}, p.Experience...)
	c.Education = append([]models.Education{}, p.Education...)
	return &c
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.byUser[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return clone(p), nil
}

func (f *fakeProfileRepo) List(_ context.Context) ([]models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := []models.Profile{}
	for _, p := range f.byUser {
		out = append(out, *clone(p))
	}
	return out, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, userID string, in models.ProfileFields) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}

	p, ok := f.byUser[userID]
	if !ok {
		p = &models.Profile{ID: primitive.NewObjectID(), UserID: userID, CreatedAt: time.Now()}
		p.EnsureLists()
		f.byUser[userID] = p
		f.inserts++
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Company, in.Company)
	set(&p.Website, in.Website)
	set(&p.Location, in.Location)
	set(&p.Bio, in.Bio)
	set(&p.Status, in.Status)
	set(&p.GithubUsername, in.GithubUsername)
	set(&p.Social.YouTube, in.YouTube)
	set(&p.Social.Facebook, in.Facebook)
	set(&p.Social.Twitter, in.Twitter)
	set(&p.Social.Instagram, in.Instagram)
	set(&p.Social.LinkedIn, in.LinkedIn)
	if in.Skills != nil {
		p.Skills = in.Skills
	}
	p.UpdatedAt = time.Now()
	return clone(p), nil
}

func (f *fakeProfileRepo) Save(_ context.Context, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	if _, ok := f.byUser[p.UserID]; !ok {
		return utils.ErrNotFound
	}
	f.saves++
	f.byUser[p.UserID] = clone(p)
	return nil
}

func (f *fakeProfileRepo) DeleteByUserID(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byUser, userID)
	return nil
}

type fakePostRepo struct {
	byUser    map[string]int
	deleteErr error
	calls     []string
}

func (f *fakePostRepo) DeleteByUserID(_ context.Context, userID string) (int64, error) {
	f.calls = append(f.calls, userID)
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	n := f.byUser[userID]
	delete(f.byUser, userID)
	return int64(n), nil
}

type fakeUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*models.User
	listCalls int
	listErr   error
	deleteErr error
	createErr error
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: map[string]*models.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return utils.ErrDuplicate
		}
	}
	c := *u
	f.byID[u.ID] = &c
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeUserRepo) ListByIDs(_ context.Context, ids []string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.User
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byID, id)
	return nil
}

// memCache is an in-memory cache.Cache storing values as-is.
type memCache struct {
	mu   sync.Mutex
	data map[string]models.Owner
}

func newMemCache() *memCache { return &memCache{data: map[string]models.Owner{}} }

func (c *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return false, nil
	}
	*(dst.(*models.Owner)) = v
	return true, nil
}

func (c *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = *(val.(*models.Owner))
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type fakeIssuer struct{ err error }

func (f fakeIssuer) Issue(id auth.Identity) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + id.ID, nil
}
