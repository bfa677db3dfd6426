package attendance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/absensi-app/attendance-backend-go/internal/domain/attendance"
	"github.com/absensi-app/attendance-backend-go/internal/domain/shift"
	"github.com/absensi-app/attendance-backend-go/internal/domain/user"
	"github.com/absensi-app/attendance-backend-go/internal/pkg/pagination"
)

// ========================================
// ATTENDANCE
// ========================================

type mockAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]attendance.Attendance
	users   *mockUserRepo
	nextID  int
	now     func() time.Time
}

func newMockAttendanceRepo(users *mockUserRepo, now func() time.Time) *mockAttendanceRepo {
	return &mockAttendanceRepo{records: map[string]attendance.Attendance{}, users: users, now: now}
}

func (m *mockAttendanceRepo) seed(rec attendance.Attendance) attendance.Attendance {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == "" {
		m.nextID++
		rec.ID = fmt.Sprintf("att-%03d", m.nextID)
	}
	m.records[rec.ID] = rec
	return rec
}

func (m *mockAttendanceRepo) get(id string) attendance.Attendance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[id]
}

func (m *mockAttendanceRepo) openCount(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.records {
		if r.UserID == userID && r.IsOpen() {
			n++
		}
	}
	return n
}

func (m *mockAttendanceRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *mockAttendanceRepo) snapshot() map[string]attendance.Attendance {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(map[string]attendance.Attendance, len(m.records))
	for k, v := range m.records {
		cp[k] = v
	}
	return cp
}

func (m *mockAttendanceRepo) restore(s map[string]attendance.Attendance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = s
}

func (m *mockAttendanceRepo) withUser(rec attendance.Attendance) attendance.Attendance {
	if u, ok := m.users.users[rec.UserID]; ok {
		name := u.Name
		rec.UserName = &name
	}
	return rec
}

func (m *mockAttendanceRepo) Create(ctx context.Context, rec attendance.Attendance) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.UserID == rec.UserID && r.IsOpen() {
			return attendance.Attendance{}, attendance.ErrConflictOpenAttendance
		}
	}
	m.nextID++
	rec.ID = fmt.Sprintf("att-%03d", m.nextID)
	rec.CreatedAt = m.now()
	rec.UpdatedAt = rec.CreatedAt
	m.records[rec.ID] = rec
	return rec, nil
}

func (m *mockAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrRecordNotFound
	}
	return m.withUser(rec), nil
}

func (m *mockAttendanceRepo) GetOpenByID(ctx context.Context, id string, ownerID *string) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok || !rec.IsOpen() || (ownerID != nil && rec.UserID != *ownerID) {
		return attendance.Attendance{}, attendance.ErrRecordNotFound
	}
	return m.withUser(rec), nil
}

func (m *mockAttendanceRepo) ListStaleOpen(ctx context.Context, userID string, today time.Time) ([]attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attendance.Attendance
	for _, r := range m.records {
		if r.UserID == userID && r.IsStale(today) {
			out = append(out, r)
		}
	}
	sortByDate(out, false)
	return out, nil
}

func (m *mockAttendanceRepo) GetOpenOnDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.UserID == userID && r.IsOpen() && attendance.DateKey(r.Date) == attendance.DateKey(date) {
			rec := r
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *mockAttendanceRepo) LatestForShift(ctx context.Context, userID, shiftID string, date time.Time) (*attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *attendance.Attendance
	for _, r := range m.records {
		if r.UserID != userID || r.ShiftID == nil || *r.ShiftID != shiftID || attendance.DateKey(r.Date) != attendance.DateKey(date) {
			continue
		}
		if latest == nil || r.ClockIn.After(latest.ClockIn) {
			rec := r
			latest = &rec
		}
	}
	return latest, nil
}

func (m *mockAttendanceRepo) Close(ctx context.Context, id string, clockOut time.Time, location string, note *string) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok || !rec.IsOpen() {
		return attendance.Attendance{}, attendance.ErrRecordNotFound
	}
	rec.ClockOut = &clockOut
	rec.CheckOutLocation = &location
	if note != nil {
		rec.Note = note
	}
	rec.UpdatedAt = m.now()
	m.records[id] = rec
	return m.withUser(rec), nil
}

func (m *mockAttendanceRepo) List(ctx context.Context, filter attendance.ListAttendanceFilter) ([]attendance.Attendance, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []attendance.Attendance
	for _, r := range m.records {
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		if filter.UserName != nil {
			u := m.users.users[r.UserID]
			if !strings.Contains(strings.ToLower(u.Name), strings.ToLower(*filter.UserName)) {
				continue
			}
		}
		if filter.StartDate != nil && attendance.DateKey(r.Date) < *filter.StartDate {
			continue
		}
		if filter.EndDate != nil && attendance.DateKey(r.Date) > *filter.EndDate {
			continue
		}
		if ok, err := clockMatches(filter.ClockIn, &r.ClockIn); err != nil {
			return nil, 0, err
		} else if !ok {
			continue
		}
		if ok, err := clockMatches(filter.ClockOut, r.ClockOut); err != nil {
			return nil, 0, err
		} else if !ok {
			continue
		}
		matched = append(matched, m.withUser(r))
	}
	sortByDate(matched, filter.SortDesc)

	total := int64(len(matched))
	if filter.Unpaged {
		if filter.Limit > 0 && len(matched) > filter.Limit {
			matched = matched[:filter.Limit]
		}
		return matched, total, nil
	}
	start := pagination.Offset(filter.Page, filter.PageSize)
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *mockAttendanceRepo) ListAllStaleOpen(ctx context.Context, today time.Time) ([]attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attendance.Attendance
	for _, r := range m.records {
		if r.IsStale(today) {
			out = append(out, r)
		}
	}
	sortByDate(out, false)
	return out, nil
}

func (m *mockAttendanceRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return attendance.ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *mockAttendanceRepo) LockUser(ctx context.Context, userID string) error {
	return nil
}

// clockMatches compares the WIB time of day of t, to the second, with want.
func clockMatches(want *string, t *time.Time) (bool, error) {
	if want == nil || *want == "" {
		return true, nil
	}
	c, err := shift.ParseClock(*want)
	if err != nil {
		return false, err
	}
	return t != nil && shift.ClockOf(t.In(wib)) == c, nil
}

func sortByDate(recs []attendance.Attendance, desc bool) {
	sort.SliceStable(recs, func(i, j int) bool {
		if desc {
			return recs[i].ClockIn.After(recs[j].ClockIn)
		}
		return recs[i].ClockIn.Before(recs[j].ClockIn)
	})
}

// ========================================
// TRANSACTOR
// ========================================

// mockTransactor restores the attendance store when fn fails.
type mockTransactor struct {
	repo *mockAttendanceRepo
}

func (t *mockTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := t.repo.snapshot()
	if err := fn(ctx); err != nil {
		t.repo.restore(snap)
		return err
	}
	return nil
}

// ========================================
// USERS / SHIFTS
// ========================================

type mockUserRepo struct {
	users map[string]user.User
}

func newMockUserRepo(users ...user.User) *mockUserRepo {
	m := &mockUserRepo{users: map[string]user.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) Create(ctx context.Context, newUser user.User) (user.User, error) {
	m.users[newUser.ID] = newUser
	return newUser, nil
}

func (m *mockUserRepo) List(ctx context.Context, filter user.UserFilter) ([]user.User, int64, error) {
	var out []user.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (m *mockUserRepo) CountByIDs(ctx context.Context, ids []string) (int, error) {
	n := 0
	for _, id := range ids {
		if _, ok := m.users[id]; ok {
			n++
		}
	}
	return n, nil
}

type mockShiftRepo struct {
	shifts     map[string]shift.Shift
	assignment map[string][]string // user id -> shift ids
}

func newMockShiftRepo(shifts ...shift.Shift) *mockShiftRepo {
	m := &mockShiftRepo{shifts: map[string]shift.Shift{}, assignment: map[string][]string{}}
	for _, s := range shifts {
		m.shifts[s.ID] = s
	}
	return m
}

func (m *mockShiftRepo) assign(userID string, shiftIDs ...string) {
	m.assignment[userID] = append(m.assignment[userID], shiftIDs...)
}

func (m *mockShiftRepo) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	m.shifts[s.ID] = s
	return s, nil
}

func (m *mockShiftRepo) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	s, ok := m.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (m *mockShiftRepo) GetByName(ctx context.Context, name string) (shift.Shift, error) {
	for _, s := range m.shifts {
		if s.Name == name {
			return s, nil
		}
	}
	return shift.Shift{}, shift.ErrShiftNotFound
}

func (m *mockShiftRepo) List(ctx context.Context) ([]shift.Shift, error) {
	var out []shift.Shift
	for _, s := range m.shifts {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockShiftRepo) Update(ctx context.Context, s shift.Shift) error {
	m.shifts[s.ID] = s
	return nil
}

func (m *mockShiftRepo) Delete(ctx context.Context, id string) error {
	delete(m.shifts, id)
	return nil
}

func (m *mockShiftRepo) ListByUser(ctx context.Context, userID string) ([]shift.Shift, error) {
	var out []shift.Shift
	for _, id := range m.assignment[userID] {
		out = append(out, m.shifts[id])
	}
	return out, nil
}

func (m *mockShiftRepo) ReplaceUsers(ctx context.Context, shiftID string, userIDs []string) error {
	for _, uid := range userIDs {
		m.assign(uid, shiftID)
	}
	return nil
}

func (m *mockShiftRepo) ListUserIDs(ctx context.Context, shiftID string) ([]string, error) {
	var out []string
	for uid, ids := range m.assignment {
		for _, id := range ids {
			if id == shiftID {
				out = append(out, uid)
			}
		}
	}
	return out, nil
}
