package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/travian22/aksa-2/internal/audit"
	"github.com/travian22/aksa-2/internal/model"
	"github.com/travian22/aksa-2/internal/repository"
	"github.com/travian22/aksa-2/pkg/storage"
)

var mockSeq int

func nextMockID(prefix string) string {
	mockSeq++
	return fmt.Sprintf("%s-%04d", prefix, mockSeq)
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = nextMockID("user")
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *mockUserRepo) ListWithFilters(_ context.Context, _ *repository.UserListFilters, _, _ int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

// ── Mock DivisionRepository ──

type mockDivisionRepo struct {
	divisions map[string]*model.Division
	employees *mockEmployeeRepo
}

func newMockDivisionRepo(employees *mockEmployeeRepo) *mockDivisionRepo {
	return &mockDivisionRepo{divisions: make(map[string]*model.Division), employees: employees}
}

func (m *mockDivisionRepo) Create(_ context.Context, division *model.Division) error {
	if division.ID == "" {
		division.ID = nextMockID("div")
	}
	m.divisions[division.ID] = division
	return nil
}

func (m *mockDivisionRepo) GetByID(_ context.Context, id string) (*model.Division, error) {
	if d, ok := m.divisions[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDivisionRepo) GetByName(_ context.Context, name string) (*model.Division, error) {
	for _, d := range m.divisions {
		if d.Name == name {
			cp := *d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDivisionRepo) Update(_ context.Context, division *model.Division) error {
	m.divisions[division.ID] = division
	return nil
}

func (m *mockDivisionRepo) Delete(_ context.Context, id string) error {
	delete(m.divisions, id)
	return nil
}

func (m *mockDivisionRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.divisions)), nil
}

func (m *mockDivisionRepo) CountEmployees(_ context.Context, divisionID string) (int64, error) {
	var n int64
	for _, e := range m.employees.employees {
		if e.DivisionID == divisionID {
			n++
		}
	}
	return n, nil
}

func (m *mockDivisionRepo) ListWithFilters(_ context.Context, _ *repository.DivisionListFilters, _, _ int) ([]model.Division, int64, error) {
	var result []model.Division
	for _, d := range m.divisions {
		result = append(result, *d)
	}
	return result, int64(len(result)), nil
}

func (m *mockDivisionRepo) ListWithEmployeeCount(ctx context.Context) ([]repository.DivisionEmployeeCount, error) {
	var result []repository.DivisionEmployeeCount
	for _, d := range m.divisions {
		n, _ := m.CountEmployees(ctx, d.ID)
		result = append(result, repository.DivisionEmployeeCount{ID: d.ID, Name: d.Name, TotalEmployees: n})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[string]*model.Employee
	divisions *mockDivisionRepo
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) withDivision(e model.Employee) model.Employee {
	if m.divisions != nil {
		if d, ok := m.divisions.divisions[e.DivisionID]; ok {
			cp := *d
			e.Division = &cp
		}
	}
	return e
}

func (m *mockEmployeeRepo) Create(_ context.Context, employee *model.Employee) error {
	if employee.ID == "" {
		employee.ID = nextMockID("emp")
	}
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = time.Now()
	}
	cp := *employee
	cp.Division = nil
	m.employees[employee.ID] = &cp
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		cp := m.withDivision(*e)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) ListByIDs(_ context.Context, ids []string) ([]model.Employee, error) {
	var result []model.Employee
	for _, id := range ids {
		if e, ok := m.employees[id]; ok {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEmployeeRepo) Update(_ context.Context, employee *model.Employee) error {
	cp := *employee
	cp.Division = nil
	m.employees[employee.ID] = &cp
	return nil
}

func (m *mockEmployeeRepo) Delete(_ context.Context, id string) error {
	delete(m.employees, id)
	return nil
}

func (m *mockEmployeeRepo) DeleteByIDs(_ context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := m.employees[id]; ok {
			delete(m.employees, id)
			n++
		}
	}
	return n, nil
}

func (m *mockEmployeeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.employees)), nil
}

func (m *mockEmployeeRepo) sorted() []model.Employee {
	var result []model.Employee
	for _, e := range m.employees {
		result = append(result, m.withDivision(*e))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (m *mockEmployeeRepo) ListWithFilters(_ context.Context, _ *repository.EmployeeListFilters, _, _ int) ([]model.Employee, int64, error) {
	result := m.sorted()
	return result, int64(len(result)), nil
}

func (m *mockEmployeeRepo) ListAll(_ context.Context, filters *repository.EmployeeListFilters) ([]model.Employee, error) {
	var result []model.Employee
	for _, e := range m.sorted() {
		if filters != nil && filters.DivisionID != "" && e.DivisionID != filters.DivisionID {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (m *mockEmployeeRepo) ListByDivision(_ context.Context, divisionID string) ([]model.Employee, error) {
	var result []model.Employee
	for _, e := range m.sorted() {
		if divisionID == "" || e.DivisionID == divisionID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockEmployeeRepo) Recent(_ context.Context, limit int) ([]model.Employee, error) {
	result := m.sorted()
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockEmployeeRepo) CountByPosition(_ context.Context) ([]repository.PositionCount, error) {
	counts := map[string]int64{}
	for _, e := range m.employees {
		counts[e.Position]++
	}
	var result []repository.PositionCount
	for p, n := range counts {
		result = append(result, repository.PositionCount{Position: p, Total: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Total == result[j].Total {
			return result[i].Position < result[j].Position
		}
		return result[i].Total > result[j].Total
	})
	return result, nil
}

func (m *mockEmployeeRepo) CountByDivision(_ context.Context) ([]repository.DivisionCount, error) {
	counts := map[string]int64{}
	for _, e := range m.employees {
		counts[e.DivisionID]++
	}
	var result []repository.DivisionCount
	for id, n := range counts {
		name := ""
		if m.divisions != nil {
			if d, ok := m.divisions.divisions[id]; ok {
				name = d.Name
			}
		}
		result = append(result, repository.DivisionCount{DivisionID: id, DivisionName: name, Total: n})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Total > result[j].Total })
	return result, nil
}

func (m *mockEmployeeRepo) ListImages(_ context.Context) ([]string, error) {
	var result []string
	for _, e := range m.employees {
		if e.Image != nil && *e.Image != "" {
			result = append(result, *e.Image)
		}
	}
	return result, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	attendances map[string]*model.Attendance
	employees   *mockEmployeeRepo
	// createErr 非 nil 时 Create 返回该错误（模拟唯一约束冲突）
	createErr error
}

func newMockAttendanceRepo(employees *mockEmployeeRepo) *mockAttendanceRepo {
	return &mockAttendanceRepo{attendances: make(map[string]*model.Attendance), employees: employees}
}

func (m *mockAttendanceRepo) Create(_ context.Context, attendance *model.Attendance) error {
	if m.createErr != nil {
		return m.createErr
	}
	if attendance.ID == "" {
		attendance.ID = nextMockID("att")
	}
	cp := *attendance
	cp.Employee = nil
	m.attendances[attendance.ID] = &cp
	return nil
}

func (m *mockAttendanceRepo) GetByID(ctx context.Context, id string) (*model.Attendance, error) {
	a, ok := m.attendances[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	if e, err := m.employees.GetByID(ctx, a.EmployeeID); err == nil {
		cp.Employee = e
	}
	return &cp, nil
}

func (m *mockAttendanceRepo) Update(_ context.Context, attendance *model.Attendance) error {
	cp := *attendance
	cp.Employee = nil
	m.attendances[attendance.ID] = &cp
	return nil
}

func (m *mockAttendanceRepo) Delete(_ context.Context, id string) error {
	delete(m.attendances, id)
	return nil
}

func (m *mockAttendanceRepo) ExistsForEmployeeOnDate(_ context.Context, employeeID string, date time.Time, excludeID string) (bool, error) {
	for _, a := range m.attendances {
		if a.EmployeeID == employeeID && a.Date.Equal(date) && a.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAttendanceRepo) ListWithFilters(_ context.Context, filters *repository.AttendanceListFilters, _, _ int) ([]model.Attendance, int64, error) {
	var result []model.Attendance
	for _, a := range m.attendances {
		if filters != nil && filters.Status != "" && a.Status != filters.Status {
			continue
		}
		result = append(result, *a)
	}
	return result, int64(len(result)), nil
}

func (m *mockAttendanceRepo) CountByEmployeeStatus(_ context.Context, from, to time.Time, divisionID string) ([]repository.EmployeeStatusCount, error) {
	type key struct{ employee, status string }
	counts := map[key]int64{}
	for _, a := range m.attendances {
		if a.Date.Before(from) || !a.Date.Before(to) {
			continue
		}
		if divisionID != "" {
			e, ok := m.employees.employees[a.EmployeeID]
			if !ok || e.DivisionID != divisionID {
				continue
			}
		}
		counts[key{a.EmployeeID, a.Status}]++
	}
	var result []repository.EmployeeStatusCount
	for k, n := range counts {
		result = append(result, repository.EmployeeStatusCount{EmployeeID: k.employee, Status: k.status, Total: n})
	}
	return result, nil
}

// ── Mock ActivityLogRepository ──

type mockActivityLogRepo struct {
	logs []model.ActivityLog
}

func (m *mockActivityLogRepo) Create(_ context.Context, log *model.ActivityLog) error {
	if log.ID == "" {
		log.ID = nextMockID("log")
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockActivityLogRepo) ListWithFilters(_ context.Context, filters *repository.ActivityLogListFilters, _, _ int) ([]model.ActivityLog, int64, error) {
	var result []model.ActivityLog
	for _, l := range m.logs {
		if filters != nil && filters.Action != "" && l.Action != filters.Action {
			continue
		}
		result = append(result, l)
	}
	return result, int64(len(result)), nil
}

// byAction 按操作类型筛选已记录的日志
func (m *mockActivityLogRepo) byAction(action string) []model.ActivityLog {
	var result []model.ActivityLog
	for _, l := range m.logs {
		if l.Action == action {
			result = append(result, l)
		}
	}
	return result
}

// ── Mock ImageStore / TokenRevoker ──

type mockImageStore struct {
	files   map[string][]byte
	deleted []string
	saveErr error
}

func newMockImageStore() *mockImageStore {
	return &mockImageStore{files: make(map[string][]byte)}
}

func (m *mockImageStore) SaveImage(_ context.Context, r io.Reader, dir string) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	url := fmt.Sprintf("/storage/%s/%s.png", dir, nextMockID("img"))
	m.files[url] = buf.Bytes()
	return url, nil
}

func (m *mockImageStore) Delete(_ context.Context, url string) error {
	delete(m.files, url)
	m.deleted = append(m.deleted, url)
	return nil
}

var _ ImageStore = (*storage.Local)(nil)

type mockRevoker struct {
	blacklisted map[string]time.Duration
	revoked     []string
}

func newMockRevoker() *mockRevoker {
	return &mockRevoker{blacklisted: make(map[string]time.Duration)}
}

func (m *mockRevoker) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.blacklisted[jti] = ttl
	return nil
}

func (m *mockRevoker) RevokeUserTokens(_ context.Context, userID string, _ time.Time, _ time.Duration) error {
	m.revoked = append(m.revoked, userID)
	return nil
}

// ── 测试装配 ──

type testRepos struct {
	repo        *repository.Repository
	users       *mockUserRepo
	divisions   *mockDivisionRepo
	employees   *mockEmployeeRepo
	attendances *mockAttendanceRepo
	logs        *mockActivityLogRepo
}

func newTestRepos() *testRepos {
	employees := newMockEmployeeRepo()
	divisions := newMockDivisionRepo(employees)
	employees.divisions = divisions
	attendances := newMockAttendanceRepo(employees)
	users := newMockUserRepo()
	logs := &mockActivityLogRepo{}

	return &testRepos{
		repo: &repository.Repository{
			User:        users,
			Division:    divisions,
			Employee:    employees,
			Attendance:  attendances,
			ActivityLog: logs,
		},
		users:       users,
		divisions:   divisions,
		employees:   employees,
		attendances: attendances,
		logs:        logs,
	}
}

func newTestRecorder() *audit.Recorder {
	return audit.NewRecorder(zap.NewNop())
}

// actorCtx 模拟已登录管理员的请求上下文
func actorCtx(userID string) context.Context {
	return audit.WithActor(context.Background(), audit.Actor{UserID: userID, IP: "127.0.0.1"})
}
