package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"schoolhub/internal/domain"
)

type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

type studentModel struct {
	ID             int64      `gorm:"column:id;primaryKey"`
	UserID         int64      `gorm:"column:user_id;uniqueIndex"`
	SchoolID       int64      `gorm:"column:school_id;index"`
	ClassroomID    *int64     `gorm:"column:classroom_id;index"`
	Grade          string     `gorm:"column:grade;index"`
	FirstName      string     `gorm:"column:first_name"`
	LastName       string     `gorm:"column:last_name"`
	GuardianPhone  string     `gorm:"column:guardian_phone"`
	Status         string     `gorm:"column:status;index"`
	EnrollmentDate time.Time  `gorm:"column:enrollment_date"`
	GraduatedAt    *time.Time `gorm:"column:graduated_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (studentModel) TableName() string { return "students" }

func toDomainStudent(m studentModel) *domain.Student {
	return &domain.Student{
		ID:             m.ID,
		UserID:         m.UserID,
		SchoolID:       m.SchoolID,
		ClassroomID:    m.ClassroomID,
		Grade:          m.Grade,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		GuardianPhone:  m.GuardianPhone,
		Status:         domain.StudentStatus(m.Status),
		EnrollmentDate: m.EnrollmentDate,
		GraduatedAt:    m.GraduatedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toStudentModel(s *domain.Student) studentModel {
	return studentModel{
		ID:             s.ID,
		UserID:         s.UserID,
		SchoolID:       s.SchoolID,
		ClassroomID:    s.ClassroomID,
		Grade:          s.Grade,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		GuardianPhone:  s.GuardianPhone,
		Status:         string(s.Status),
		EnrollmentDate: s.EnrollmentDate,
		GraduatedAt:    s.GraduatedAt,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func (r *StudentRepository) Create(ctx context.Context, s *domain.Student) error {
	m := toStudentModel(s)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	s.ID = m.ID
	s.CreatedAt = m.CreatedAt
	s.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*domain.Student, error) {
	var m studentModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainStudent(m), nil
}

func (r *StudentRepository) FindByUserID(ctx context.Context, userID int64) (*domain.Student, error) {
	var m studentModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainStudent(m), nil
}

func (r *StudentRepository) Update(ctx context.Context, s *domain.Student) error {
	m := toStudentModel(s)
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *StudentRepository) CountByClassroom(ctx context.Context, classroomID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&studentModel{}).
		Where("classroom_id = ? AND status = ?", classroomID, string(domain.StudentActive)).
		Count(&count).Error
	return count, err
}

func (r *StudentRepository) CountBySchool(ctx context.Context, schoolID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&studentModel{}).
		Where("school_id = ?", schoolID).Count(&count).Error
	return count, err
}

func (r *StudentRepository) CountActiveBySchool(ctx context.Context, schoolID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&studentModel{}).
		Where("school_id = ? AND status = ?", schoolID, string(domain.StudentActive)).
		Count(&count).Error
	return count, err
}

type StudentQuery struct {
	SchoolID    *int64
	ClassroomID *int64
	Grade       string
	Status      domain.StudentStatus
	Page        int
	Limit       int
}

func (r *StudentRepository) List(ctx context.Context, q StudentQuery) ([]domain.Student, int64, error) {
	page, limit := normalizePage(q.Page, q.Limit)

	tx := r.db.WithContext(ctx).Model(&studentModel{})
	if q.SchoolID != nil {
		tx = tx.Where("school_id = ?", *q.SchoolID)
	}
	if q.ClassroomID != nil {
		tx = tx.Where("classroom_id = ?", *q.ClassroomID)
	}
	if q.Grade != "" {
		tx = tx.Where("grade = ?", q.Grade)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", string(q.Status))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []studentModel
	err := tx.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	students := make([]domain.Student, 0, len(models))
	for _, m := range models {
		students = append(students, *toDomainStudent(m))
	}
	return students, total, nil
}
