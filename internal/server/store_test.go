package server

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/db"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/search"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/types"
)

// memStore is an in-memory Store. SearchJobListings does not interpret the plan; it records
// it and pages over the published listings newest first.
type memStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*types.User
	listings     map[uuid.UUID]*types.JobListing
	apps         map[uuid.UUID]*types.Application
	saved        map[[2]uuid.UUID]bool
	plans        []*search.Plan
	pingErr      error
	clock        time.Time
	annotateHits int
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]*types.User{},
		listings: map[uuid.UUID]*types.JobListing{},
		apps:     map[uuid.UUID]*types.Application{},
		saved:    map[[2]uuid.UUID]bool{},
		clock:    time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) addUser(role, name string) *types.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &types.User{ID: uuid.New(), Name: name, Username: name, Email: name + "@example.com", Role: role}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addListing(employer *types.User, title, status string) *types.JobListing {
	l, _ := m.CreateJobListing(context.Background(), employer.ID, &types.JobListingInput{
		Title: title, Company: "Acme", Location: "Lahore", Description: title + " role", JobStatus: status,
	})
	return l
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

func (m *memStore) SearchJobListings(_ context.Context, plan *search.Plan, page db.Page) (*db.SearchPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans = append(m.plans, plan)

	var published []*types.JobListing
	for _, l := range m.listings {
		if !l.IsDraft() {
			published = append(published, l)
		}
	}
	sort.Slice(published, func(i, j int) bool { return published[i].CreatedAt.After(published[j].CreatedAt) })

	out := &db.SearchPage{Count: len(published), Results: []search.Result{}}
	for i := page.Offset(); i < len(published) && i < page.Offset()+page.Size; i++ {
		cp := *published[i]
		out.Results = append(out.Results, search.Result{Listing: &cp})
	}
	return out, nil
}

func (m *memStore) GetJobListing(_ context.Context, id uuid.UUID) (*types.JobListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (m *memStore) ListEmployerJobListings(_ context.Context, employerID uuid.UUID) ([]types.JobListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []types.JobListing{}
	for _, l := range m.listings {
		if l.EmployerID == employerID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) CreateJobListing(_ context.Context, employerID uuid.UUID, in *types.JobListingInput) (*types.JobListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in.ApplyDefaults()
	m.clock = m.clock.Add(time.Minute)
	l := &types.JobListing{ID: uuid.New(), EmployerID: employerID, CreatedAt: m.clock}
	fillListing(l, in)
	m.listings[l.ID] = l
	cp := *l
	return &cp, nil
}

func (m *memStore) UpdateJobListing(_ context.Context, id uuid.UUID, in *types.JobListingInput) (*types.JobListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, nil
	}
	in.ApplyDefaults()
	fillListing(l, in)
	cp := *l
	return &cp, nil
}

func fillListing(l *types.JobListing, in *types.JobListingInput) {
	l.Title, l.Company, l.Location, l.Description = in.Title, in.Company, in.Location, in.Description
	l.RequiredQualifications = in.RequiredQualifications
	l.ExperienceLevel, l.Salary, l.JobType = in.ExperienceLevel, in.Salary, in.JobType
	l.JobLocationType, l.JobStatus = in.JobLocationType, in.JobStatus
}

func (m *memStore) DeleteJobListing(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listings[id]; !ok {
		return fmt.Errorf("job listing %s: %w", id, db.ErrNotFound)
	}
	delete(m.listings, id)
	return nil
}

func (m *memStore) CreateApplication(_ context.Context, jobID, candidateID uuid.UUID, req *types.ApplyRequest) (*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.JobID == jobID && a.CandidateID == candidateID {
			return nil, fmt.Errorf("application for job %s: %w", jobID, db.ErrDuplicate)
		}
	}
	a := &types.Application{
		ID: uuid.New(), JobID: jobID, JobTitle: m.listings[jobID].Title,
		CandidateID: candidateID, CandidateName: m.users[candidateID].Name,
		Status: types.ApplicationPending, Resume: req.Resume, ExtractedResume: req.ExtractedResume,
	}
	m.apps[a.ID] = a
	m.listings[jobID].Applicants++
	cp := *a
	return &cp, nil
}

func (m *memStore) GetApplication(_ context.Context, id uuid.UUID) (*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) ListApplicationsForJob(_ context.Context, jobID uuid.UUID) ([]types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []types.Application{}
	for _, a := range m.apps {
		if a.JobID == jobID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memStore) UpdateApplicationStatus(_ context.Context, id uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return fmt.Errorf("application %s: %w", id, db.ErrNotFound)
	}
	a.Status = status
	return nil
}

func (m *memStore) SetApplicationContract(_ context.Context, id uuid.UUID, location string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return fmt.Errorf("application %s: %w", id, db.ErrNotFound)
	}
	a.Contract = location
	return nil
}

func (m *memStore) SaveJob(_ context.Context, userID, jobID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[[2]uuid.UUID{userID, jobID}] = true
	return nil
}

func (m *memStore) UnsaveJob(_ context.Context, userID, jobID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uuid.UUID{userID, jobID}
	if !m.saved[key] {
		return fmt.Errorf("saved job %s: %w", jobID, db.ErrNotFound)
	}
	delete(m.saved, key)
	return nil
}

func (m *memStore) AppliedJobIDs(_ context.Context, userID uuid.UUID, jobIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.annotateHits++
	set := map[uuid.UUID]bool{}
	for _, a := range m.apps {
		if a.CandidateID == userID {
			set[a.JobID] = true
		}
	}
	return restrict(set, jobIDs), nil
}

func (m *memStore) SavedJobIDs(_ context.Context, userID uuid.UUID, jobIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := map[uuid.UUID]bool{}
	for key := range m.saved {
		if key[0] == userID {
			set[key[1]] = true
		}
	}
	return restrict(set, jobIDs), nil
}

func restrict(set map[uuid.UUID]bool, ids []uuid.UUID) map[uuid.UUID]bool {
	out := map[uuid.UUID]bool{}
	for _, id := range ids {
		if set[id] {
			out[id] = true
		}
	}
	return out
}

// memBackend is an in-memory cache.Backend.
type memBackend struct {
	mu   sync.Mutex
	data map[string][]byte
	gen  int64
}

func newMemBackend() *memBackend {
	return &memBackend{data: map[string][]byte{}}
}

func (b *memBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if key == "jobs:generation" {
		if b.gen == 0 {
			return nil, false, nil
		}
		return []byte(fmt.Sprint(b.gen)), true, nil
	}
	v, ok := b.data[key]
	return v, ok, nil
}

func (b *memBackend) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
	return nil
}

func (b *memBackend) Incr(_ context.Context, _ string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen++
	return b.gen, nil
}
