package school

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"schoolhub/internal/domain"
	"schoolhub/internal/pkg/audit"
	"schoolhub/internal/pkg/fault"
	"schoolhub/internal/rbac"
	"schoolhub/internal/repository"
	"schoolhub/internal/session"
)

type mockSchoolRepo struct {
	mock.Mock
}

func (m *mockSchoolRepo) Create(ctx context.Context, s *domain.School) error {
	args := m.Called(ctx, s)
	if args.Error(0) == nil {
		s.ID = 10
	}
	return args.Error(0)
}

func (m *mockSchoolRepo) FindByID(ctx context.Context, id int64) (*domain.School, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*domain.School), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSchoolRepo) FindActiveByID(ctx context.Context, id int64) (*domain.School, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*domain.School), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSchoolRepo) Update(ctx context.Context, s *domain.School) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSchoolRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSchoolRepo) SetAdmin(ctx context.Context, schoolID int64, adminID *int64) error {
	return m.Called(ctx, schoolID, adminID).Error(0)
}

func (m *mockSchoolRepo) List(ctx context.Context, q repository.SchoolQuery) ([]domain.School, int64, error) {
	args := m.Called(ctx, q)
	if s := args.Get(0); s != nil {
		return s.([]domain.School), args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindActiveByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) SetRole(ctx context.Context, id int64, role domain.Role, schoolID *int64) error {
	return m.Called(ctx, id, role, schoolID).Error(0)
}

type mockCounter struct {
	mock.Mock
}

func (m *mockCounter) CountBySchool(ctx context.Context, schoolID int64) (int64, error) {
	args := m.Called(ctx, schoolID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCounter) CountActiveBySchool(ctx context.Context, schoolID int64) (int64, error) {
	args := m.Called(ctx, schoolID)
	return args.Get(0).(int64), args.Error(1)
}

type recordedEvent struct {
	userID int64
	action string
}

type fakeAuditor struct {
	events []recordedEvent
}

func (f *fakeAuditor) Emit(userID int64, performedBy, action, details string) {
	f.events = append(f.events, recordedEvent{userID: userID, action: action})
}

func newStore(t *testing.T) session.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return session.NewRedisStore(client)
}

func superadmin() rbac.Actor {
	return rbac.Actor{UserID: 1, Role: domain.RoleSuperadmin}
}

func schoolAdmin(schoolID int64) rbac.Actor {
	return rbac.Actor{UserID: 2, Role: domain.RoleSchoolAdmin, SchoolID: &schoolID}
}

func newService(schools *mockSchoolRepo, users *mockUserRepo, classrooms, students *mockCounter, store session.Store, a auditor) *Service {
	return NewService(schools, users, classrooms, students, store, a)
}

func TestCreate_SuperadminOnly(t *testing.T) {
	ctx := context.Background()
	svc := newService(new(mockSchoolRepo), new(mockUserRepo), new(mockCounter), new(mockCounter), newStore(t), &fakeAuditor{})

	_, err := svc.Create(ctx, schoolAdmin(5), CreateSchoolRequest{Name: "N", Address: "A", ContactEmail: "a@b.c"})
	assert.True(t, fault.IsKind(err, fault.KindUnauthorized))
}

func TestCreate_DefaultsToActive(t *testing.T) {
	ctx := context.Background()
	schools := new(mockSchoolRepo)
	schools.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.School) bool {
		return s.Status == domain.SchoolActive
	})).Return(nil)

	svc := newService(schools, new(mockUserRepo), new(mockCounter), new(mockCounter), newStore(t), &fakeAuditor{})

	created, err := svc.Create(ctx, superadmin(), CreateSchoolRequest{Name: "N", Address: "A", ContactEmail: "a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)
	schools.AssertExpectations(t)
}

func TestGet_SchoolAdminLimitedToOwnSchool(t *testing.T) {
	ctx := context.Background()
	schools := new(mockSchoolRepo)
	schools.On("FindByID", mock.Anything, int64(5)).Return(&domain.School{ID: 5}, nil)

	svc := newService(schools, new(mockUserRepo), new(mockCounter), new(mockCounter), newStore(t), &fakeAuditor{})

	own, err := svc.Get(ctx, schoolAdmin(5), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), own.ID)

	_, err = svc.Get(ctx, schoolAdmin(5), 9)
	assert.Equal(t, ErrNotFound, err)
}

func TestDelete_RefusedWhileOccupied(t *testing.T) {
	ctx := context.Background()
	schools := new(mockSchoolRepo)
	classrooms := new(mockCounter)
	students := new(mockCounter)

	schools.On("FindByID", mock.Anything, int64(5)).Return(&domain.School{ID: 5}, nil)
	classrooms.On("CountBySchool", mock.Anything, int64(5)).Return(int64(2), nil)
	students.On("CountBySchool", mock.Anything, int64(5)).Return(int64(0), nil)

	svc := newService(schools, new(mockUserRepo), classrooms, students, newStore(t), &fakeAuditor{})

	err := svc.Delete(ctx, superadmin(), 5)
	assert.Equal(t, ErrNotEmpty, err)
	schools.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_EmptySchoolSucceeds(t *testing.T) {
	ctx := context.Background()
	schools := new(mockSchoolRepo)
	classrooms := new(mockCounter)
	students := new(mockCounter)

	schools.On("FindByID", mock.Anything, int64(5)).Return(&domain.School{ID: 5}, nil)
	classrooms.On("CountBySchool", mock.Anything, int64(5)).Return(int64(0), nil)
	students.On("CountBySchool", mock.Anything, int64(5)).Return(int64(0), nil)
	schools.On("Delete", mock.Anything, int64(5)).Return(nil)

	svc := newService(schools, new(mockUserRepo), classrooms, students, newStore(t), &fakeAuditor{})

	require.NoError(t, svc.Delete(ctx, superadmin(), 5))
	schools.AssertExpectations(t)
}

func TestStats_SuperadminOnly(t *testing.T) {
	ctx := context.Background()
	svc := newService(new(mockSchoolRepo), new(mockUserRepo), new(mockCounter), new(mockCounter), newStore(t), &fakeAuditor{})

	_, err := svc.Stats(ctx, schoolAdmin(5), 5)
	assert.True(t, fault.IsKind(err, fault.KindUnauthorized))
}

func TestStats_Counts(t *testing.T) {
	ctx := context.Background()
	schools := new(mockSchoolRepo)
	classrooms := new(mockCounter)
	students := new(mockCounter)

	schools.On("FindByID", mock.Anything, int64(5)).Return(&domain.School{ID: 5}, nil)
	students.On("CountBySchool", mock.Anything, int64(5)).Return(int64(30), nil)
	students.On("CountActiveBySchool", mock.Anything, int64(5)).Return(int64(28), nil)
	classrooms.On("CountBySchool", mock.Anything, int64(5)).Return(int64(3), nil)

	svc := newService(schools, new(mockUserRepo), classrooms, students, newStore(t), &fakeAuditor{})

	stats, err := svc.Stats(ctx, superadmin(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(30), stats.TotalStudents)
	assert.Equal(t, int64(28), stats.ActiveStudents)
	assert.Equal(t, int64(3), stats.TotalClassrooms)
}

func TestAssignAdmin_BindsUserAndRevokesSession(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	auditRec := &fakeAuditor{}

	schools := new(mockSchoolRepo)
	users := new(mockUserRepo)

	schools.On("FindActiveByID", mock.Anything, int64(5)).Return(&domain.School{ID: 5, Status: domain.SchoolActive}, nil)
	users.On("FindActiveByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7, Status: domain.UserActive}, nil)
	schoolID := int64(5)
	users.On("SetRole", mock.Anything, int64(7), domain.RoleSchoolAdmin, &schoolID).Return(nil)
	adminID := int64(7)
	schools.On("SetAdmin", mock.Anything, int64(5), &adminID).Return(nil)

	svc := newService(schools, users, new(mockCounter), new(mockCounter), store, auditRec)

	require.NoError(t, store.Put(ctx, 7, session.Record{Token: "t"}, time.Hour))

	school, err := svc.AssignAdmin(ctx, superadmin(), 5, AssignAdminRequest{UserID: 7})
	require.NoError(t, err)
	require.NotNil(t, school.AdminID)
	assert.Equal(t, int64(7), *school.AdminID)

	rec, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.Len(t, auditRec.events, 1)
	assert.Equal(t, audit.ActionAdminAssigned, auditRec.events[0].action)
}

func TestAssignAdmin_OccupiedSlotRejected(t *testing.T) {
	ctx := context.Background()
	schools := new(mockSchoolRepo)
	existing := int64(3)
	schools.On("FindActiveByID", mock.Anything, int64(5)).Return(&domain.School{ID: 5, AdminID: &existing}, nil)

	svc := newService(schools, new(mockUserRepo), new(mockCounter), new(mockCounter), newStore(t), &fakeAuditor{})

	_, err := svc.AssignAdmin(ctx, superadmin(), 5, AssignAdminRequest{UserID: 7})
	assert.Equal(t, ErrAdminAssigned, err)
}

func TestRemoveAdmin_ClearsBindingAndRevokesSession(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	auditRec := &fakeAuditor{}

	adminID := int64(7)
	schools := new(mockSchoolRepo)
	users := new(mockUserRepo)

	schools.On("FindByID", mock.Anything, int64(5)).Return(&domain.School{ID: 5, AdminID: &adminID}, nil)
	users.On("SetRole", mock.Anything, int64(7), domain.RoleSchoolAdmin, (*int64)(nil)).Return(nil)
	schools.On("SetAdmin", mock.Anything, int64(5), (*int64)(nil)).Return(nil)

	svc := newService(schools, users, new(mockCounter), new(mockCounter), store, auditRec)

	require.NoError(t, store.Put(ctx, 7, session.Record{Token: "t"}, time.Hour))

	school, err := svc.RemoveAdmin(ctx, superadmin(), 5)
	require.NoError(t, err)
	assert.Nil(t, school.AdminID)

	rec, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.Len(t, auditRec.events, 1)
	assert.Equal(t, audit.ActionAdminRemoved, auditRec.events[0].action)
}

func TestRemoveAdmin_NoAdminRejected(t *testing.T) {
	ctx := context.Background()
	schools := new(mockSchoolRepo)
	schools.On("FindByID", mock.Anything, int64(5)).Return(&domain.School{ID: 5}, nil)

	svc := newService(schools, new(mockUserRepo), new(mockCounter), new(mockCounter), newStore(t), &fakeAuditor{})

	_, err := svc.RemoveAdmin(ctx, superadmin(), 5)
	assert.Equal(t, ErrNoAdmin, err)
}
