package student

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"schoolhub/internal/domain"
	"schoolhub/internal/pkg/fault"
	"schoolhub/internal/rbac"
	"schoolhub/internal/repository"
)

type mockStudentRepo struct {
	mock.Mock
}

func (m *mockStudentRepo) Create(ctx context.Context, s *domain.Student) error {
	args := m.Called(ctx, s)
	if args.Error(0) == nil {
		s.ID = 30
	}
	return args.Error(0)
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id int64) (*domain.Student, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*domain.Student), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStudentRepo) FindByUserID(ctx context.Context, userID int64) (*domain.Student, error) {
	args := m.Called(ctx, userID)
	if s := args.Get(0); s != nil {
		return s.(*domain.Student), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStudentRepo) Update(ctx context.Context, s *domain.Student) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockStudentRepo) CountByClassroom(ctx context.Context, classroomID int64) (int64, error) {
	args := m.Called(ctx, classroomID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStudentRepo) List(ctx context.Context, q repository.StudentQuery) ([]domain.Student, int64, error) {
	args := m.Called(ctx, q)
	if s := args.Get(0); s != nil {
		return s.([]domain.Student), args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

type mockClassroomRepo struct {
	mock.Mock
}

func (m *mockClassroomRepo) FindByID(ctx context.Context, id int64) (*domain.Classroom, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*domain.Classroom), args.Error(1)
	}
	return nil, args.Error(1)
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

func schoolAdmin(schoolID int64) rbac.Actor {
	return rbac.Actor{UserID: 2, Role: domain.RoleSchoolAdmin, SchoolID: &schoolID}
}

func studentActor(userID, schoolID int64) rbac.Actor {
	return rbac.Actor{UserID: userID, Role: domain.RoleStudent, SchoolID: &schoolID}
}

func studentUser(id, schoolID int64) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleStudent, SchoolID: &schoolID, Status: domain.UserActive}
}

func TestEnroll_Success(t *testing.T) {
	ctx := context.Background()

	students := new(mockStudentRepo)
	classrooms := new(mockClassroomRepo)
	users := new(mockUserRepo)

	users.On("FindActiveByID", mock.Anything, int64(7)).Return(studentUser(7, 5), nil)
	students.On("FindByUserID", mock.Anything, int64(7)).Return(nil, nil)
	classrooms.On("FindByID", mock.Anything, int64(20)).Return(&domain.Classroom{ID: 20, SchoolID: 5, Capacity: 30}, nil)
	students.On("CountByClassroom", mock.Anything, int64(20)).Return(int64(10), nil)
	students.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Student) bool {
		return s.SchoolID == 5 && s.Status == domain.StudentActive && !s.EnrollmentDate.IsZero()
	})).Return(nil)

	svc := NewService(students, classrooms, users)

	classroomID := int64(20)
	st, err := svc.Enroll(ctx, schoolAdmin(5), EnrollRequest{
		UserID: 7, ClassroomID: &classroomID, Grade: "3",
		FirstName: "Aigerim", LastName: "Seitkali",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(30), st.ID)
	students.AssertExpectations(t)
}

func TestEnroll_CapacityEnforced(t *testing.T) {
	ctx := context.Background()

	students := new(mockStudentRepo)
	classrooms := new(mockClassroomRepo)
	users := new(mockUserRepo)

	users.On("FindActiveByID", mock.Anything, int64(7)).Return(studentUser(7, 5), nil)
	students.On("FindByUserID", mock.Anything, int64(7)).Return(nil, nil)
	classrooms.On("FindByID", mock.Anything, int64(20)).Return(&domain.Classroom{ID: 20, SchoolID: 5, Capacity: 30}, nil)
	students.On("CountByClassroom", mock.Anything, int64(20)).Return(int64(30), nil)

	svc := NewService(students, classrooms, users)

	classroomID := int64(20)
	_, err := svc.Enroll(ctx, schoolAdmin(5), EnrollRequest{
		UserID: 7, ClassroomID: &classroomID, Grade: "3",
		FirstName: "A", LastName: "B",
	})
	assert.Equal(t, ErrClassroomFull, err)
}

func TestEnroll_CrossSchoolUserRejected(t *testing.T) {
	ctx := context.Background()

	users := new(mockUserRepo)
	users.On("FindActiveByID", mock.Anything, int64(7)).Return(studentUser(7, 9), nil)

	svc := NewService(new(mockStudentRepo), new(mockClassroomRepo), users)

	_, err := svc.Enroll(ctx, schoolAdmin(5), EnrollRequest{
		UserID: 7, Grade: "3", FirstName: "A", LastName: "B",
	})
	assert.Equal(t, ErrNotStudentRole, err)
}

func TestEnroll_DuplicateRejected(t *testing.T) {
	ctx := context.Background()

	students := new(mockStudentRepo)
	users := new(mockUserRepo)

	users.On("FindActiveByID", mock.Anything, int64(7)).Return(studentUser(7, 5), nil)
	students.On("FindByUserID", mock.Anything, int64(7)).Return(&domain.Student{ID: 30, UserID: 7}, nil)

	svc := NewService(students, new(mockClassroomRepo), users)

	_, err := svc.Enroll(ctx, schoolAdmin(5), EnrollRequest{
		UserID: 7, Grade: "3", FirstName: "A", LastName: "B",
	})
	assert.Equal(t, ErrAlreadyEnrolled, err)
}

func TestTransfer_SameSchoolCapacityChecked(t *testing.T) {
	ctx := context.Background()

	students := new(mockStudentRepo)
	classrooms := new(mockClassroomRepo)

	oldRoom := int64(20)
	students.On("FindByID", mock.Anything, int64(30)).Return(&domain.Student{
		ID: 30, SchoolID: 5, ClassroomID: &oldRoom, Status: domain.StudentActive,
	}, nil)
	classrooms.On("FindByID", mock.Anything, int64(21)).Return(&domain.Classroom{ID: 21, SchoolID: 5, Capacity: 25}, nil)
	students.On("CountByClassroom", mock.Anything, int64(21)).Return(int64(24), nil)
	students.On("Update", mock.Anything, mock.MatchedBy(func(s *domain.Student) bool {
		return s.ClassroomID != nil && *s.ClassroomID == 21
	})).Return(nil)

	svc := NewService(students, classrooms, new(mockUserRepo))

	st, err := svc.Transfer(ctx, schoolAdmin(5), 30, TransferRequest{ClassroomID: 21})
	require.NoError(t, err)
	assert.Equal(t, int64(21), *st.ClassroomID)
}

func TestTransfer_OtherSchoolClassroomRejected(t *testing.T) {
	ctx := context.Background()

	students := new(mockStudentRepo)
	classrooms := new(mockClassroomRepo)

	students.On("FindByID", mock.Anything, int64(30)).Return(&domain.Student{
		ID: 30, SchoolID: 5, Status: domain.StudentActive,
	}, nil)
	classrooms.On("FindByID", mock.Anything, int64(40)).Return(&domain.Classroom{ID: 40, SchoolID: 9, Capacity: 25}, nil)

	svc := NewService(students, classrooms, new(mockUserRepo))

	_, err := svc.Transfer(ctx, schoolAdmin(5), 30, TransferRequest{ClassroomID: 40})
	assert.Equal(t, ErrWrongSchool, err)
}

func TestGraduate_SetsStatusAndTimestamp(t *testing.T) {
	ctx := context.Background()

	students := new(mockStudentRepo)
	students.On("FindByID", mock.Anything, int64(30)).Return(&domain.Student{
		ID: 30, SchoolID: 5, Status: domain.StudentActive,
	}, nil)
	students.On("Update", mock.Anything, mock.MatchedBy(func(s *domain.Student) bool {
		return s.Status == domain.StudentGraduated && s.GraduatedAt != nil
	})).Return(nil)

	svc := NewService(students, new(mockClassroomRepo), new(mockUserRepo))

	st, err := svc.Graduate(ctx, schoolAdmin(5), 30)
	require.NoError(t, err)
	assert.Equal(t, domain.StudentGraduated, st.Status)

	// Graduating twice is rejected.
	students.ExpectedCalls = nil
	students.On("FindByID", mock.Anything, int64(30)).Return(&domain.Student{
		ID: 30, SchoolID: 5, Status: domain.StudentGraduated,
	}, nil)
	_, err = svc.Graduate(ctx, schoolAdmin(5), 30)
	assert.Equal(t, ErrNotActive, err)
}

func TestList_SchoolAdminPinned(t *testing.T) {
	ctx := context.Background()

	students := new(mockStudentRepo)
	students.On("List", mock.Anything, mock.MatchedBy(func(q repository.StudentQuery) bool {
		return q.SchoolID != nil && *q.SchoolID == 5
	})).Return([]domain.Student{}, int64(0), nil)

	svc := NewService(students, new(mockClassroomRepo), new(mockUserRepo))

	other := int64(9)
	_, _, err := svc.List(ctx, schoolAdmin(5), ListQuery{SchoolID: &other})
	require.NoError(t, err)
	students.AssertExpectations(t)
}

func TestProfile_OwnRecordOnly(t *testing.T) {
	ctx := context.Background()

	students := new(mockStudentRepo)
	students.On("FindByUserID", mock.Anything, int64(7)).Return(&domain.Student{ID: 30, UserID: 7, SchoolID: 5}, nil)

	svc := NewService(students, new(mockClassroomRepo), new(mockUserRepo))

	st, err := svc.Profile(ctx, studentActor(7, 5))
	require.NoError(t, err)
	assert.Equal(t, int64(30), st.ID)

	_, err = svc.Profile(ctx, schoolAdmin(5))
	assert.True(t, fault.IsKind(err, fault.KindUnauthorized))
}

func TestGet_CrossSchoolHidden(t *testing.T) {
	ctx := context.Background()

	students := new(mockStudentRepo)
	students.On("FindByID", mock.Anything, int64(30)).Return(&domain.Student{ID: 30, SchoolID: 9}, nil)

	svc := NewService(students, new(mockClassroomRepo), new(mockUserRepo))

	_, err := svc.Get(ctx, schoolAdmin(5), 30)
	assert.Equal(t, ErrNotFound, err)
}
