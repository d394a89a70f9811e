package routes

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/yoockh/devconnector/internal/models"
	"github.com/yoockh/devconnector/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memProfiles struct {
	mu     sync.Mutex
	byUser map[string]models.Profile
	err    error
}

func (m *memProfiles) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.byUser[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	p.Experience = append([]models.Experience{}, p.Experience...)
	p.Education = append([]models.Education{}, p.Education...)
	return &p, nil
}

func (m *memProfiles) List(_ context.Context) ([]models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []models.Profile{}
	for _, p := range m.byUser {
		out = append(out, p)
	}
	return out, nil
}

func (m *memProfiles) Upsert(_ context.Context, userID string, f models.ProfileFields) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.byUser[userID]
	if !ok {
		p = models.Profile{ID: primitive.NewObjectID(), UserID: userID, CreatedAt: time.Now()}
		p.EnsureLists()
	}
	for dst, v := range map[*string]*string{
		&p.Company: f.Company, &p.Website: f.Website, &p.Location: f.Location,
		&p.Bio: f.Bio, &p.Status: f.Status, &p.GithubUsername: f.GithubUsername,
		&p.Social.YouTube: f.YouTube, &p.Social.Facebook: f.Facebook, &p.Social.Twitter: f.Twitter,
		&p.Social.Instagram: f.Instagram, &p.Social.LinkedIn: f.LinkedIn,
	} {
		if v != nil {
			*dst = *v
		}
	}
	if f.Skills != nil {
		p.Skills = f.Skills
	}
	p.UpdatedAt = time.Now()
	m.byUser[userID] = p
	return &p, nil
}

func (m *memProfiles) Save(_ context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.byUser[p.UserID] = *p
	return nil
}

func (m *memProfiles) DeleteByUserID(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.byUser, userID)
	return nil
}

type memPosts struct {
	mu     sync.Mutex
	byUser map[string]int
}

func (m *memPosts) DeleteByUserID(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.byUser[userID]
	delete(m.byUser, userID)
	return int64(n), nil
}

type memUsers struct {
	mu   sync.Mutex
	byID map[string]models.User
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return utils.ErrDuplicate
		}
	}
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (m *memUsers) ListByIDs(_ context.Context, ids []string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, id := range ids {
		if u, ok := m.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

type stubGithub struct {
	body json.RawMessage
	err  error
	seen string
}

func (s *stubGithub) Repos(_ context.Context, username string) (json.RawMessage, error) {
	s.seen = username
	return s.body, s.err
}
