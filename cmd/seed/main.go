package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"schoolhub/internal/config"
	"schoolhub/internal/database"
	"schoolhub/internal/domain"
	"schoolhub/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM students")
	db.Exec("DELETE FROM classrooms")
	db.Exec("DELETE FROM schools")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	schools := repository.NewSchoolRepository(db)
	classrooms := repository.NewClassroomRepository(db)
	students := repository.NewStudentRepository(db)

	hash := func(pw string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("bcrypt failed:", err)
		}
		return string(h)
	}

	// ================== SUPERADMIN ==================
	log.Println("Creating superadmin...")
	root := &domain.User{
		Username:     "root",
		Email:        "root@schoolhub.kz",
		PasswordHash: hash("root12345"),
		Role:         domain.RoleSuperadmin,
		Status:       domain.UserActive,
	}
	if err := users.Create(ctx, root); err != nil {
		log.Fatal("superadmin create failed:", err)
	}

	// ================== SCHOOL + ADMIN ==================
	log.Println("Creating school and school admin...")
	schoolRow := &domain.School{
		Name:         "Gymnasium No. 25",
		Address:      "Abay Ave 52, Almaty",
		ContactEmail: "office@gym25.kz",
		ContactPhone: "+7 727 250 11 22",
		Status:       domain.SchoolActive,
		Description:  "Specialized gymnasium with a STEM focus",
	}
	if err := schools.Create(ctx, schoolRow); err != nil {
		log.Fatal("school create failed:", err)
	}

	admin := &domain.User{
		Username:     "gym25admin",
		Email:        "admin@gym25.kz",
		PasswordHash: hash("admin12345"),
		Role:         domain.RoleSchoolAdmin,
		SchoolID:     &schoolRow.ID,
		Status:       domain.UserActive,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatal("school admin create failed:", err)
	}
	if err := schools.SetAdmin(ctx, schoolRow.ID, &admin.ID); err != nil {
		log.Fatal("admin binding failed:", err)
	}

	// ================== CLASSROOMS ==================
	log.Println("Creating classrooms...")
	rooms := make([]*domain.Classroom, 0, 3)
	for i, name := range []string{"1A", "1B", "2A"} {
		room := &domain.Classroom{
			SchoolID: schoolRow.ID,
			Name:     name,
			Capacity: 25,
			Grade:    fmt.Sprintf("%d", i/2+1),
			Teacher:  fmt.Sprintf("Teacher %d", i+1),
			Resources: domain.ClassroomResources{
				Computers:  10,
				Projector:  true,
				Whiteboard: true,
			},
			Schedule: []domain.ScheduleEntry{
				{Day: "monday", StartTime: "08:30", EndTime: "09:15", Subject: "Mathematics"},
				{Day: "monday", StartTime: "09:25", EndTime: "10:10", Subject: "Kazakh"},
			},
			Status: domain.ClassroomActive,
		}
		if err := classrooms.Create(ctx, room); err != nil {
			log.Fatal("classroom create failed:", err)
		}
		rooms = append(rooms, room)
	}

	// ================== STUDENTS ==================
	log.Println("Creating students...")
	names := [][2]string{
		{"Aigerim", "Seitkali"},
		{"Bekzat", "Nurlanov"},
		{"Dina", "Akhmetova"},
		{"Yerlan", "Tastanbekov"},
		{"Madina", "Omarova"},
	}
	for i, n := range names {
		account := &domain.User{
			Username:     fmt.Sprintf("student%d", i+1),
			Email:        fmt.Sprintf("student%d@gym25.kz", i+1),
			PasswordHash: hash("student123"),
			Role:         domain.RoleStudent,
			SchoolID:     &schoolRow.ID,
			Status:       domain.UserActive,
		}
		if err := users.Create(ctx, account); err != nil {
			log.Fatal("student user create failed:", err)
		}

		room := rooms[i%len(rooms)]
		st := &domain.Student{
			UserID:         account.ID,
			SchoolID:       schoolRow.ID,
			ClassroomID:    &room.ID,
			Grade:          room.Grade,
			FirstName:      n[0],
			LastName:       n[1],
			GuardianPhone:  fmt.Sprintf("+7 777 123 45%02d", i+10),
			Status:         domain.StudentActive,
			EnrollmentDate: schoolRow.CreatedAt,
		}
		if err := students.Create(ctx, st); err != nil {
			log.Fatal("student create failed:", err)
		}
	}

	log.Println("Seed completed!")
	log.Println("Test accounts:")
	log.Println("Superadmin:   root / root12345")
	log.Println("School admin: gym25admin / admin12345")
	log.Println("Students:     student1..student5 / student123")
}
