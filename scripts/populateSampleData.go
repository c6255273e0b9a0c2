package main

import (
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	examModels "lms/models/exam"

	"golang.org/x/crypto/bcrypt"
)

// Seeds a small working dataset: one admin, two teachers, four students,
// two courses with weekly plans, one exam with questions, enrollments and
// fee records. Safe to re-run; existing emails are skipped.
func main() {
	config.LoadConfig()
	database.ConnectDb()

	if err := database.Migrate(database.Database.Db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	db := database.Database.Db

	hash := func(plain string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(plain), config.AppConfig.SaltRound)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		return string(h)
	}

	seedUser := func(name, email, role string, super bool) models.User {
		var existing models.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			log.Printf("User %s already exists, skipping", email)
			return existing
		}
		u := models.User{
			Name:        name,
			Email:       email,
			Password:    hash("password123"),
			Role:        role,
			IsActive:    true,
			IsSuperuser: super,
		}
		if err := db.Create(&u).Error; err != nil {
			log.Fatalf("Failed to create user %s: %v", email, err)
		}
		log.Printf("Created %s user %s", role, email)
		return u
	}

	admin := seedUser("Site Admin", "admin@lms.local", models.RoleAdmin, true)
	alice := seedUser("Alice Rivera", "alice@lms.local", models.RoleTeacher, false)
	bob := seedUser("Bob Tanaka", "bob@lms.local", models.RoleTeacher, false)
	students := []models.User{
		seedUser("Carol Osei", "carol@lms.local", models.RoleStudent, false),
		seedUser("Dan Petrov", "dan@lms.local", models.RoleStudent, false),
		seedUser("Eve Lindqvist", "eve@lms.local", models.RoleStudent, false),
		seedUser("Frank Moreau", "frank@lms.local", models.RoleStudent, false),
	}
	_ = admin

	seedCourse := func(title string, teacher models.User, fee float64, weeks int) courseModels.Course {
		var existing courseModels.Course
		if err := db.Where("title = ?", title).First(&existing).Error; err == nil {
			return existing
		}
		course := courseModels.Course{
			Title:           title,
			Description:     "Sample course seeded for development.",
			TeacherID:       teacher.ID,
			DifficultyLevel: courseModels.DifficultyBeginner,
			DurationWeeks:   weeks,
			Fee:             fee,
			IsActive:        true,
			MaxStudents:     50,
		}
		if err := db.Create(&course).Error; err != nil {
			log.Fatalf("Failed to create course %s: %v", title, err)
		}
		for w := 1; w <= weeks; w++ {
			week := courseModels.WeeklyDetail{
				CourseID:   course.ID,
				WeekNumber: w,
				Title:      "Week " + time.Now().AddDate(0, 0, 7*w).Format("Jan 2"),
			}
			db.Create(&week)
		}
		log.Printf("Created course %s with %d weeks", title, weeks)
		return course
	}

	golang := seedCourse("Introduction to Go", alice, 199.0, 8)
	algebra := seedCourse("Linear Algebra", bob, 149.0, 12)

	for i, s := range students {
		course := golang
		if i%2 == 1 {
			course = algebra
		}
		enrollment := courseModels.Enrollment{
			StudentID: s.ID,
			CourseID:  course.ID,
			IsActive:  true,
		}
		if err := db.Create(&enrollment).Error; err != nil {
			log.Printf("Enrollment for %s skipped: %v", s.Email, err)
			continue
		}
		fee := models.FeeTransaction{
			StudentID:       s.ID,
			CourseID:        &course.ID,
			TransactionType: models.FeeTypeCourse,
			Amount:          course.Fee,
			PaymentStatus:   models.PaymentCompleted,
			PaymentMethod:   models.MethodOnline,
			TransactionID:   "SEED-" + s.Email,
			Description:     "Seeded course fee",
		}
		db.Create(&fee)
	}

	var examCount int64
	db.Model(&examModels.Exam{}).Where("course_id = ?", golang.ID).Count(&examCount)
	if examCount == 0 {
		exam := examModels.Exam{
			Title:           "Go Basics Quiz",
			CourseID:        golang.ID,
			DurationMinutes: 30,
			TotalMarks:      10,
			PassingMarks:    4,
			StartTime:       time.Now(),
			EndTime:         time.Now().AddDate(0, 0, 14),
			IsActive:        true,
			CreatedByID:     alice.ID,
		}
		if err := db.Create(&exam).Error; err != nil {
			log.Fatalf("Failed to create exam: %v", err)
		}

		type seedQ struct {
			text    string
			correct string
			wrong   []string
		}
		for i, q := range []seedQ{
			{"Which keyword declares a variable?", "var", []string{"let", "dim"}},
			{"What is the zero value of an int?", "0", []string{"nil", "undefined"}},
			{"Which builtin appends to a slice?", "append", []string{"push", "add"}},
			{"How are errors usually returned?", "as the last return value", []string{"as exceptions", "via panics"}},
			{"What does go func() start?", "a goroutine", []string{"a thread pool", "a process"}},
		} {
			question := examModels.Question{
				ExamID:       exam.ID,
				QuestionText: q.text,
				QuestionType: examModels.QuestionMultipleChoice,
				Marks:        2,
				Order:        i + 1,
			}
			db.Create(&question)
			db.Create(&examModels.QuestionOption{QuestionID: question.ID, OptionText: q.correct, IsCorrect: true, Order: 1})
			for j, w := range q.wrong {
				db.Create(&examModels.QuestionOption{QuestionID: question.ID, OptionText: w, Order: j + 2})
			}
		}
		log.Printf("Created exam %s with 5 questions", exam.Title)
	}

	salaryMonth := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.UTC)
	for _, t := range []models.User{alice, bob} {
		salary := models.TeacherSalary{
			TeacherID:     t.ID,
			Month:         salaryMonth,
			BaseSalary:    4000,
			Bonus:         250,
			PaymentStatus: models.PaymentPending,
		}
		if err := db.Create(&salary).Error; err != nil {
			log.Printf("Salary for %s skipped: %v", t.Email, err)
		}
	}

	log.Println("Sample data population complete")
}
