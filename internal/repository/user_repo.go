package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"schoolhub/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	Username      string     `gorm:"column:username;size:50;uniqueIndex"`
	Email         string     `gorm:"column:email;uniqueIndex"`
	PasswordHash  string     `gorm:"column:password_hash"`
	Role          string     `gorm:"column:role;index"`
	SchoolID      *int64     `gorm:"column:school_id;index"`
	Status        string     `gorm:"column:status;index"`
	DeactivatedAt *time.Time `gorm:"column:deactivated_at"`
	DeactivatedBy *string    `gorm:"column:deactivated_by"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var deactivatedBy string
	if m.DeactivatedBy != nil {
		deactivatedBy = *m.DeactivatedBy
	}
	return &domain.User{
		ID:            m.ID,
		Username:      m.Username,
		Email:         m.Email,
		PasswordHash:  m.PasswordHash,
		Role:          domain.Role(m.Role),
		SchoolID:      m.SchoolID,
		Status:        domain.UserStatus(m.Status),
		DeactivatedAt: m.DeactivatedAt,
		DeactivatedBy: deactivatedBy,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	var deactivatedBy *string
	if u.DeactivatedBy != "" {
		v := u.DeactivatedBy
		deactivatedBy = &v
	}
	return userModel{
		ID:            u.ID,
		Username:      strings.TrimSpace(u.Username),
		Email:         strings.TrimSpace(strings.ToLower(u.Email)),
		PasswordHash:  u.PasswordHash,
		Role:          string(u.Role),
		SchoolID:      u.SchoolID,
		Status:        string(u.Status),
		DeactivatedAt: u.DeactivatedAt,
		DeactivatedBy: deactivatedBy,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	u.ID = m.ID
	u.CreatedAt = m.CreatedAt
	u.UpdatedAt = m.UpdatedAt
	return nil
}

// FindActiveByID returns (nil, nil) when the user is absent or not
// active. All Find* methods share that convention.
func (r *UserRepository) FindActiveByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).Where("id = ? AND status = ?", id, string(domain.UserActive)).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) FindActiveByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).
		Where("username = ? AND status = ?", strings.TrimSpace(username), string(domain.UserActive)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userModel{}).
		Where("username = ?", strings.TrimSpace(username)).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userModel{}).
		Where("email = ?", strings.TrimSpace(strings.ToLower(email))).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Updates(map[string]any{
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	}).Error
}

func (r *UserRepository) SetRole(ctx context.Context, id int64, role domain.Role, schoolID *int64) error {
	return r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Updates(map[string]any{
		"role":       string(role),
		"school_id":  schoolID,
		"updated_at": time.Now(),
	}).Error
}

func (r *UserRepository) Deactivate(ctx context.Context, id int64, performedBy string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Updates(map[string]any{
		"status":         string(domain.UserInactive),
		"deactivated_at": now,
		"deactivated_by": performedBy,
		"updated_at":     now,
	}).Error
}

type UserQuery struct {
	Role     *domain.Role
	SchoolID *int64
	Status   domain.UserStatus
	Page     int
	Limit    int
}

func (r *UserRepository) List(ctx context.Context, q UserQuery) ([]domain.User, int64, error) {
	page, limit := normalizePage(q.Page, q.Limit)

	tx := r.db.WithContext(ctx).Model(&userModel{})
	if q.Role != nil {
		tx = tx.Where("role = ?", string(*q.Role))
	}
	if q.SchoolID != nil {
		tx = tx.Where("school_id = ?", *q.SchoolID)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", string(q.Status))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []userModel
	err := tx.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	users := make([]domain.User, 0, len(models))
	for _, m := range models {
		users = append(users, *toDomainUser(m))
	}
	return users, total, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}
