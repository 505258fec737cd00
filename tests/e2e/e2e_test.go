package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"schoolhub/internal/database"
	"schoolhub/internal/domain"
	"schoolhub/internal/middleware"
	"schoolhub/internal/modules/auth"
	"schoolhub/internal/modules/classroom"
	"schoolhub/internal/modules/school"
	"schoolhub/internal/modules/student"
	"schoolhub/internal/modules/user"
	"schoolhub/internal/pkg/audit"
	"schoolhub/internal/pkg/token"
	"schoolhub/internal/repository"
	"schoolhub/internal/session"
)

type app struct {
	router *gin.Engine
	users  *repository.UserRepository
}

type envelope struct {
	OK      bool            `json:"ok"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
	Message string          `json:"message"`
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(filepath.Join(t.TempDir(), "e2e.db"))
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	zlog := zap.NewNop()

	userRepo := repository.NewUserRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	tokens := token.NewManager("e2e-access-secret", "e2e-refresh-secret", 15*time.Minute, 7*24*time.Hour)
	sessions := session.NewRedisStore(redisClient)
	auditor := audit.NewEmitter(zlog)
	t.Cleanup(auditor.Close)

	authHandler := auth.NewHandler(auth.NewService(userRepo, sessions, tokens))
	userHandler := user.NewHandler(user.NewService(userRepo, schoolRepo, sessions, auditor))
	schoolHandler := school.NewHandler(school.NewService(schoolRepo, userRepo, classroomRepo, studentRepo, sessions, auditor))
	classroomHandler := classroom.NewHandler(classroom.NewService(classroomRepo, schoolRepo, studentRepo))
	studentHandler := student.NewHandler(student.NewService(studentRepo, classroomRepo, userRepo))

	r := gin.New()
	r.Use(middleware.Recovery(zlog))

	authHandler.RegisterPublicRoutes(&r.RouterGroup)

	authenticated := r.Group("/auth")
	authenticated.Use(middleware.Authenticate(tokens, userRepo))
	authHandler.RegisterProtectedRoutes(authenticated)

	api := r.Group("/api")
	api.Use(middleware.Authorize(tokens, userRepo))
	userHandler.RegisterRoutes(api)
	schoolHandler.RegisterRoutes(api)
	classroomHandler.RegisterRoutes(api)
	studentHandler.RegisterRoutes(api)

	return &app{router: r, users: userRepo}
}

func (a *app) seedSuperadmin(t *testing.T) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("root12345"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, a.users.Create(context.Background(), &domain.User{
		Username:     "root",
		Email:        "root@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleSuperadmin,
		Status:       domain.UserActive,
	}))
}

func (a *app) do(t *testing.T, method, path, bearer string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w, env
}

type tokenPair struct {
	Access  string
	Refresh string
}

func (a *app) login(t *testing.T, username, password string) tokenPair {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, "login %s: %v", username, env.Errors)

	var data struct {
		Tokens struct {
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Tokens.AccessToken)
	require.NotEmpty(t, data.Tokens.RefreshToken)
	return tokenPair{Access: data.Tokens.AccessToken, Refresh: data.Tokens.RefreshToken}
}

func idOf(t *testing.T, raw json.RawMessage) int64 {
	t.Helper()
	var data struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &data))
	require.NotZero(t, data.ID)
	return data.ID
}

func TestFullLifecycle(t *testing.T) {
	a := newApp(t)
	a.seedSuperadmin(t)

	// Superadmin sets up a school with an admin.
	rootTokens := a.login(t, "root", "root12345")

	w, env := a.do(t, http.MethodPost, "/api/schools", rootTokens.Access, gin.H{
		"name":         "Gymnasium No. 25",
		"address":      "Abay Ave 52",
		"contactEmail": "office@gym25.kz",
	})
	require.Equal(t, http.StatusCreated, w.Code, "%v", env.Errors)
	schoolID := idOf(t, env.Data)

	w, env = a.do(t, http.MethodPost, "/api/users", rootTokens.Access, gin.H{
		"username": "gymadmin",
		"email":    "admin@gym25.kz",
		"password": "admin12345",
		"role":     "schoolAdmin",
		"schoolId": schoolID,
	})
	require.Equal(t, http.StatusCreated, w.Code, "%v", env.Errors)

	// The school admin builds out a classroom and enrolls a student.
	adminTokens := a.login(t, "gymadmin", "admin12345")

	w, env = a.do(t, http.MethodPost, "/api/classrooms", adminTokens.Access, gin.H{
		"schoolId": schoolID,
		"name":     "1A",
		"capacity": 2,
		"grade":    "1",
		"schedule": []gin.H{
			{"day": "monday", "startTime": "08:30", "endTime": "09:15", "subject": "Mathematics"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, "%v", env.Errors)
	classroomID := idOf(t, env.Data)

	w, env = a.do(t, http.MethodPost, "/api/users", adminTokens.Access, gin.H{
		"username": "aigerim",
		"email":    "aigerim@gym25.kz",
		"password": "student123",
		"role":     "student",
	})
	require.Equal(t, http.StatusCreated, w.Code, "%v", env.Errors)
	studentUserID := idOf(t, env.Data)

	w, env = a.do(t, http.MethodPost, "/api/students", adminTokens.Access, gin.H{
		"userId":      studentUserID,
		"classroomId": classroomID,
		"grade":       "1",
		"firstName":   "Aigerim",
		"lastName":    "Seitkali",
	})
	require.Equal(t, http.StatusCreated, w.Code, "%v", env.Errors)

	// The student reads their own profile and the classroom schedule.
	studentTokens := a.login(t, "aigerim", "student123")

	w, env = a.do(t, http.MethodGet, "/api/students/profile", studentTokens.Access, nil)
	require.Equal(t, http.StatusOK, w.Code, "%v", env.Errors)
	var profile struct {
		FirstName string `json:"firstName"`
		SchoolID  int64  `json:"schoolId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "Aigerim", profile.FirstName)
	assert.Equal(t, schoolID, profile.SchoolID)

	w, _ = a.do(t, http.MethodGet, "/api/classrooms/"+itoa(classroomID)+"/schedule", studentTokens.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The student cannot list students.
	w, env = a.do(t, http.MethodGet, "/api/students", studentTokens.Access, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized access to resource", env.Errors[0])
}

func TestSessionRevocation(t *testing.T) {
	a := newApp(t)
	a.seedSuperadmin(t)

	first := a.login(t, "root", "root12345")

	// Refresh works while the session record matches.
	w, env := a.do(t, http.MethodPost, "/auth/refresh-token", "", gin.H{"refreshToken": first.Refresh})
	require.Equal(t, http.StatusOK, w.Code, "%v", env.Errors)

	// A second login overwrites the record and orphans the first token.
	second := a.login(t, "root", "root12345")

	w, env = a.do(t, http.MethodPost, "/auth/refresh-token", "", gin.H{"refreshToken": first.Refresh})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid refresh token", env.Errors[0])

	// Logout removes the record entirely.
	w, _ = a.do(t, http.MethodPost, "/auth/logout", second.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = a.do(t, http.MethodPost, "/auth/refresh-token", "", gin.H{"refreshToken": second.Refresh})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid refresh token", env.Errors[0])
}

func TestRotateToken(t *testing.T) {
	a := newApp(t)
	a.seedSuperadmin(t)

	pair := a.login(t, "root", "root12345")

	w, env := a.do(t, http.MethodPost, "/auth/rotate-token", "", gin.H{"refreshToken": pair.Refresh})
	require.Equal(t, http.StatusOK, w.Code, "%v", env.Errors)

	var rotated struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rotated))
	require.NotEqual(t, pair.Refresh, rotated.RefreshToken)

	// The pre-rotation refresh token is dead.
	w, _ = a.do(t, http.MethodPost, "/auth/refresh-token", "", gin.H{"refreshToken": pair.Refresh})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// The rotated one works.
	w, _ = a.do(t, http.MethodPost, "/auth/refresh-token", "", gin.H{"refreshToken": rotated.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCrossSchoolIsolation(t *testing.T) {
	a := newApp(t)
	a.seedSuperadmin(t)
	rootTokens := a.login(t, "root", "root12345")

	makeSchool := func(name, adminUser string) int64 {
		w, env := a.do(t, http.MethodPost, "/api/schools", rootTokens.Access, gin.H{
			"name":         name,
			"address":      "somewhere",
			"contactEmail": adminUser + "@example.com",
		})
		require.Equal(t, http.StatusCreated, w.Code, "%v", env.Errors)
		id := idOf(t, env.Data)

		w, env = a.do(t, http.MethodPost, "/api/users", rootTokens.Access, gin.H{
			"username": adminUser,
			"email":    adminUser + "@example.com",
			"password": "admin12345",
			"role":     "schoolAdmin",
			"schoolId": id,
		})
		require.Equal(t, http.StatusCreated, w.Code, "%v", env.Errors)
		return id
	}

	makeSchool("School A", "admina")
	schoolB := makeSchool("School B", "adminb")

	adminA := a.login(t, "admina", "admin12345")

	// Route-param scoping.
	w, env := a.do(t, http.MethodGet, "/api/schools/"+itoa(schoolB), adminA.Access, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized access to school resources", env.Errors[0])

	// Body scoping.
	w, env = a.do(t, http.MethodPost, "/api/classrooms", adminA.Access, gin.H{
		"schoolId": schoolB,
		"name":     "1A",
		"capacity": 10,
		"grade":    "1",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized access to school resources", env.Errors[0])
}

func TestLoginEnumerationResistance(t *testing.T) {
	a := newApp(t)
	a.seedSuperadmin(t)

	w1, env1 := a.do(t, http.MethodPost, "/auth/login", "", gin.H{"username": "ghost", "password": "whatever"})
	w2, env2 := a.do(t, http.MethodPost, "/auth/login", "", gin.H{"username": "root", "password": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w1.Code)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
	assert.Equal(t, env1.Errors, env2.Errors)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
