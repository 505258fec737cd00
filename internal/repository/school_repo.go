package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"schoolhub/internal/domain"
)

type SchoolRepository struct {
	db *gorm.DB
}

func NewSchoolRepository(db *gorm.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

type schoolModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name;index"`
	Address      string    `gorm:"column:address"`
	ContactEmail string    `gorm:"column:contact_email"`
	ContactPhone string    `gorm:"column:contact_phone"`
	AdminID      *int64    `gorm:"column:admin_id;index"`
	Status       string    `gorm:"column:status;index"`
	Description  string    `gorm:"column:description"`
	Website      string    `gorm:"column:website"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (schoolModel) TableName() string { return "schools" }

func toDomainSchool(m schoolModel) *domain.School {
	return &domain.School{
		ID:           m.ID,
		Name:         m.Name,
		Address:      m.Address,
		ContactEmail: m.ContactEmail,
		ContactPhone: m.ContactPhone,
		AdminID:      m.AdminID,
		Status:       domain.SchoolStatus(m.Status),
		Description:  m.Description,
		Website:      m.Website,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toSchoolModel(s *domain.School) schoolModel {
	return schoolModel{
		ID:           s.ID,
		Name:         strings.TrimSpace(s.Name),
		Address:      s.Address,
		ContactEmail: strings.TrimSpace(strings.ToLower(s.ContactEmail)),
		ContactPhone: s.ContactPhone,
		AdminID:      s.AdminID,
		Status:       string(s.Status),
		Description:  s.Description,
		Website:      s.Website,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (r *SchoolRepository) Create(ctx context.Context, s *domain.School) error {
	m := toSchoolModel(s)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	s.ID = m.ID
	s.CreatedAt = m.CreatedAt
	s.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *SchoolRepository) FindByID(ctx context.Context, id int64) (*domain.School, error) {
	var m schoolModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainSchool(m), nil
}

func (r *SchoolRepository) FindActiveByID(ctx context.Context, id int64) (*domain.School, error) {
	var m schoolModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, string(domain.SchoolActive)).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainSchool(m), nil
}

func (r *SchoolRepository) Update(ctx context.Context, s *domain.School) error {
	m := toSchoolModel(s)
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *SchoolRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&schoolModel{}).Error
}

func (r *SchoolRepository) SetAdmin(ctx context.Context, schoolID int64, adminID *int64) error {
	return r.db.WithContext(ctx).Model(&schoolModel{}).Where("id = ?", schoolID).Updates(map[string]any{
		"admin_id":   adminID,
		"updated_at": time.Now(),
	}).Error
}

type SchoolQuery struct {
	Status domain.SchoolStatus
	Page   int
	Limit  int
}

func (r *SchoolRepository) List(ctx context.Context, q SchoolQuery) ([]domain.School, int64, error) {
	page, limit := normalizePage(q.Page, q.Limit)

	tx := r.db.WithContext(ctx).Model(&schoolModel{})
	if q.Status != "" {
		tx = tx.Where("status = ?", string(q.Status))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []schoolModel
	err := tx.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	schools := make([]domain.School, 0, len(models))
	for _, m := range models {
		schools = append(schools, *toDomainSchool(m))
	}
	return schools, total, nil
}
