package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"schoolhub/internal/domain"
)

type ClassroomRepository struct {
	db *gorm.DB
}

func NewClassroomRepository(db *gorm.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

type classroomModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	SchoolID  int64     `gorm:"column:school_id;index:idx_classrooms_school_grade;index"`
	Name      string    `gorm:"column:name;index"`
	Capacity  int       `gorm:"column:capacity"`
	Grade     string    `gorm:"column:grade;index:idx_classrooms_school_grade"`
	Teacher   string    `gorm:"column:teacher"`
	Resources string    `gorm:"column:resources"`
	Schedule  string    `gorm:"column:schedule"`
	Status    string    `gorm:"column:status;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (classroomModel) TableName() string { return "classrooms" }

func toDomainClassroom(m classroomModel) *domain.Classroom {
	c := &domain.Classroom{
		ID:        m.ID,
		SchoolID:  m.SchoolID,
		Name:      m.Name,
		Capacity:  m.Capacity,
		Grade:     m.Grade,
		Teacher:   m.Teacher,
		Status:    domain.ClassroomStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Resources != "" {
		_ = json.Unmarshal([]byte(m.Resources), &c.Resources)
	}
	if m.Schedule != "" {
		_ = json.Unmarshal([]byte(m.Schedule), &c.Schedule)
	}
	return c
}

func toClassroomModel(c *domain.Classroom) classroomModel {
	resources, _ := json.Marshal(c.Resources)
	m := classroomModel{
		ID:        c.ID,
		SchoolID:  c.SchoolID,
		Name:      strings.TrimSpace(c.Name),
		Capacity:  c.Capacity,
		Grade:     c.Grade,
		Teacher:   c.Teacher,
		Resources: string(resources),
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if len(c.Schedule) > 0 {
		schedule, _ := json.Marshal(c.Schedule)
		m.Schedule = string(schedule)
	}
	return m
}

func (r *ClassroomRepository) Create(ctx context.Context, c *domain.Classroom) error {
	m := toClassroomModel(c)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	c.ID = m.ID
	c.CreatedAt = m.CreatedAt
	c.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *ClassroomRepository) FindByID(ctx context.Context, id int64) (*domain.Classroom, error) {
	var m classroomModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainClassroom(m), nil
}

func (r *ClassroomRepository) Update(ctx context.Context, c *domain.Classroom) error {
	m := toClassroomModel(c)
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *ClassroomRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&classroomModel{}).Error
}

func (r *ClassroomRepository) ExistsByNameGrade(ctx context.Context, schoolID int64, name, grade string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&classroomModel{}).
		Where("school_id = ? AND name = ? AND grade = ?", schoolID, strings.TrimSpace(name), grade).
		Count(&count).Error
	return count > 0, err
}

func (r *ClassroomRepository) CountBySchool(ctx context.Context, schoolID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&classroomModel{}).
		Where("school_id = ?", schoolID).Count(&count).Error
	return count, err
}

type ClassroomQuery struct {
	SchoolID *int64
	Grade    string
	Status   domain.ClassroomStatus
	Page     int
	Limit    int
}

func (r *ClassroomRepository) List(ctx context.Context, q ClassroomQuery) ([]domain.Classroom, int64, error) {
	page, limit := normalizePage(q.Page, q.Limit)

	tx := r.db.WithContext(ctx).Model(&classroomModel{})
	if q.SchoolID != nil {
		tx = tx.Where("school_id = ?", *q.SchoolID)
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

	var models []classroomModel
	err := tx.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	classrooms := make([]domain.Classroom, 0, len(models))
	for _, m := range models {
		classrooms = append(classrooms, *toDomainClassroom(m))
	}
	return classrooms, total, nil
}
