package activity

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// fakeStore is an in-memory Store for service tests.
type fakeStore struct {
	mu         sync.Mutex
	users      map[string]User
	categories []Category
	activities []Activity
	failList   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[string]User),
		categories: []Category{
			{ID: 1, Name: "Transportation"},
			{ID: 2, Name: "Food"},
			{ID: 3, Name: "Home Energy"},
			{ID: 4, Name: "Shopping"},
		},
	}
}

func (f *fakeStore) EnsureUser(_ context.Context, u User) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.users[u.ID]
	if !ok {
		f.users[u.ID] = u
		return u, nil
	}
	if u.Username != "" {
		existing.Username = u.Username
	}
	if u.Email != "" {
		existing.Email = u.Email
	}
	f.users[u.ID] = existing
	return existing, nil
}

func (f *fakeStore) GetUser(_ context.Context, id string) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeStore) ListUsers(context.Context) ([]User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeStore) ListCategories(context.Context) ([]Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.categories), nil
}

func (f *fakeStore) GetCategory(_ context.Context, id int) (Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: id %d", ErrUnknownCategory, id)
}

func (f *fakeStore) CreateCategory(_ context.Context, name string) (Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if strings.EqualFold(c.Name, name) {
			return Category{}, ErrDuplicateCategory
		}
	}
	c := Category{ID: len(f.categories) + 1, Name: name}
	f.categories = append(f.categories, c)
	return c, nil
}

func (f *fakeStore) InsertActivity(_ context.Context, a Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[a.UserID]
	if !ok {
		return ErrUserNotFound
	}
	u.TotalCarbonKg += a.CarbonKg
	u.TotalPoints += a.Points
	f.users[a.UserID] = u
	f.activities = append(f.activities, a)
	return nil
}

func (f *fakeStore) ListActivities(_ context.Context, userID, from, to string) ([]Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	var out []Activity
	for _, a := range f.activities {
		if a.UserID != userID || (from != "" && a.Date < from) || (to != "" && a.Date > to) {
			continue
		}
		out = append(out, a)
	}
	slices.SortStableFunc(out, func(a, b Activity) int { return strings.Compare(b.Date, a.Date) })
	return out, nil
}

func (f *fakeStore) DeleteActivity(_ context.Context, userID, id string) (Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.activities {
		if a.ID == id && a.UserID == userID {
			f.activities = slices.Delete(f.activities, i, i+1)
			u := f.users[userID]
			u.TotalCarbonKg -= a.CarbonKg
			u.TotalPoints -= a.Points
			f.users[userID] = u
			return a, nil
		}
	}
	return Activity{}, ErrActivityNotFound
}

func (f *fakeStore) SetDailyTarget(_ context.Context, userID string, kg float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.DailyTargetKg = kg
	f.users[userID] = u
	return nil
}

func (f *fakeStore) Stats(context.Context) (Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := Stats{Users: len(f.users), Activities: len(f.activities)}
	for _, u := range f.users {
		s.TotalCarbonKg += u.TotalCarbonKg
		s.TotalPoints += u.TotalPoints
	}
	return s, nil
}

var errBoom = errors.New("boom")
