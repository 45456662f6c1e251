package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/sat-tum/kaiyo-api/internal/models"
	appErrors "github.com/sat-tum/kaiyo-api/pkg/errors"
)

type fakeRecordRepo struct {
	items      map[string]models.CourseRecord
	seq        int
	listErr    error
	createErr  error
	overCredit map[string]bool
}

func newFakeRecordRepo(records ...models.CourseRecord) *fakeRecordRepo {
	repo := &fakeRecordRepo{items: map[string]models.CourseRecord{}, overCredit: map[string]bool{}}
	for _, record := range records {
		repo.items[record.ID] = record
	}
	return repo
}

func (f *fakeRecordRepo) List(ctx context.Context, filter models.CourseRecordFilter) ([]models.CourseRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.CourseRecord, 0, len(f.items))
	for _, record := range f.items {
		if record.StudentID != filter.StudentID {
			continue
		}
		if filter.Category != "" && record.Category != filter.Category {
			continue
		}
		if filter.Term != "" && record.Term != filter.Term {
			continue
		}
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRecordRepo) FindByID(ctx context.Context, studentID, id string) (*models.CourseRecord, error) {
	record, ok := f.items[id]
	if !ok || record.StudentID != studentID {
		return nil, sql.ErrNoRows
	}
	return &record, nil
}

func (f *fakeRecordRepo) Create(ctx context.Context, record *models.CourseRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	if record.ID == "" {
		record.ID = fmt.Sprintf("rec-%d", f.seq)
	}
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	f.items[record.ID] = *record
	return nil
}

func (f *fakeRecordRepo) CreateBatch(ctx context.Context, records []*models.CourseRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, record := range records {
		if err := f.Create(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeRecordRepo) Update(ctx context.Context, record *models.CourseRecord) error {
	f.items[record.ID] = *record
	return nil
}

func (f *fakeRecordRepo) SetOverCredit(ctx context.Context, studentID, id string, overCredit bool) error {
	record := f.items[id]
	record.IsOverCredit = overCredit
	f.items[id] = record
	f.overCredit[id] = overCredit
	return nil
}

func (f *fakeRecordRepo) Delete(ctx context.Context, studentID, id string) error {
	delete(f.items, id)
	return nil
}

func (f *fakeRecordRepo) DeleteAll(ctx context.Context, studentID string) (int64, error) {
	var removed int64
	for id, record := range f.items {
		if record.StudentID == studentID {
			delete(f.items, id)
			removed++
		}
	}
	return removed, nil
}

type fakeProfileRepo struct {
	items  map[string]models.StudentProfile
	getErr error
}

func newFakeProfileRepo(profiles ...models.StudentProfile) *fakeProfileRepo {
	repo := &fakeProfileRepo{items: map[string]models.StudentProfile{}}
	for _, p := range profiles {
		repo.items[p.StudentID] = p
	}
	return repo
}

func (f *fakeProfileRepo) Get(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.items[studentID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, profile *models.StudentProfile) error {
	f.items[profile.StudentID] = *profile
	return nil
}

func (f *fakeProfileRepo) Delete(ctx context.Context, studentID string) error {
	delete(f.items, studentID)
	return nil
}

// memoryCache stores JSON payloads in a map and supports glob invalidation.
type memoryCache struct {
	items       map[string][]byte
	invalidated []string
	getErr      error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.invalidated = append(m.invalidated, pattern)
	for key := range m.items {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.items, key)
		}
	}
	return nil
}

type stubRefresher struct {
	keys []string
	err  error
}

func (s *stubRefresher) Enqueue(studentID string) error {
	if s.err != nil {
		return s.err
	}
	s.keys = append(s.keys, studentID)
	return nil
}

var errBoom = errors.New("boom")
