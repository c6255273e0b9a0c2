package courseController

import (
	"fmt"
	"testing"
	"time"

	"lms/audit"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{Name: "Student", Email: email, Password: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedCourse(t *testing.T, db *gorm.DB, maxStudents int) *courseModels.Course {
	t.Helper()
	teacher := models.User{Name: "Teacher", Email: fmt.Sprintf("teacher-%s@test.local", t.Name()), Password: "x", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&teacher).Error)
	course := courseModels.Course{
		Title:       "Course",
		TeacherID:   teacher.ID,
		Fee:         100,
		IsActive:    true,
		MaxStudents: maxStudents,
	}
	require.NoError(t, db.Create(&course).Error)
	return &course
}

func TestEnrollStudentCreatesActiveEnrollment(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "s1@test.local")
	course := seedCourse(t, db, 50)

	enrollment, err := enrollStudent(db, audit.Discard{}, student, course)
	require.NoError(t, err)
	assert.Equal(t, student.ID, enrollment.StudentID)
	assert.Equal(t, course.ID, enrollment.CourseID)
	assert.True(t, enrollment.IsActive)
	assert.Equal(t, 0, enrollment.CompletionPercentage)
}

func TestEnrollStudentRejectsActiveDuplicate(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "s1@test.local")
	course := seedCourse(t, db, 50)

	_, err := enrollStudent(db, audit.Discard{}, student, course)
	require.NoError(t, err)

	_, err = enrollStudent(db, audit.Discard{}, student, course)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestEnrollStudentRejectsFullCourse(t *testing.T) {
	db := newTestDB(t)
	course := seedCourse(t, db, 1)
	first := seedStudent(t, db, "s1@test.local")
	second := seedStudent(t, db, "s2@test.local")

	_, err := enrollStudent(db, audit.Discard{}, first, course)
	require.NoError(t, err)

	_, err = enrollStudent(db, audit.Discard{}, second, course)
	assert.ErrorIs(t, err, ErrCourseFull)
}

func TestEnrollStudentReactivatesInactiveRow(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "s1@test.local")
	course := seedCourse(t, db, 50)

	enrollment, err := enrollStudent(db, audit.Discard{}, student, course)
	require.NoError(t, err)

	// Leave behind completed history on the row before unenrolling.
	require.NoError(t, updateProgress(db, audit.Discard{}, enrollment, 100))
	require.NoError(t, unenrollStudent(db, audit.Discard{}, student.ID, course.ID))

	reactivated, err := enrollStudent(db, audit.Discard{}, student, course)
	require.NoError(t, err)
	assert.Equal(t, enrollment.ID, reactivated.ID, "re-enrollment must reuse the historical row")
	assert.True(t, reactivated.IsActive)
	assert.Equal(t, 0, reactivated.CompletionPercentage)
	assert.Nil(t, reactivated.CompletedAt)

	var count int64
	db.Model(&courseModels.Enrollment{}).
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUnenrollStudentSoftDeletes(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "s1@test.local")
	course := seedCourse(t, db, 50)

	_, err := enrollStudent(db, audit.Discard{}, student, course)
	require.NoError(t, err)
	require.NoError(t, unenrollStudent(db, audit.Discard{}, student.ID, course.ID))

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("student_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.False(t, enrollment.IsActive)
}

func TestUnenrollStudentWithoutEnrollment(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "s1@test.local")
	course := seedCourse(t, db, 50)

	err := unenrollStudent(db, audit.Discard{}, student.ID, course.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestUpdateProgressBounds(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "s1@test.local")
	course := seedCourse(t, db, 50)
	enrollment, err := enrollStudent(db, audit.Discard{}, student, course)
	require.NoError(t, err)

	assert.ErrorIs(t, updateProgress(db, audit.Discard{}, enrollment, -1), ErrInvalidPercentage)
	assert.ErrorIs(t, updateProgress(db, audit.Discard{}, enrollment, 101), ErrInvalidPercentage)
	assert.NoError(t, updateProgress(db, audit.Discard{}, enrollment, 0))
	assert.NoError(t, updateProgress(db, audit.Discard{}, enrollment, 100))
}

func TestUpdateProgressStampsCompletionOnce(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "s1@test.local")
	course := seedCourse(t, db, 50)
	enrollment, err := enrollStudent(db, audit.Discard{}, student, course)
	require.NoError(t, err)

	require.NoError(t, updateProgress(db, audit.Discard{}, enrollment, 100))
	require.NotNil(t, enrollment.CompletedAt)
	first := *enrollment.CompletedAt

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, updateProgress(db, audit.Discard{}, enrollment, 100))
	require.NotNil(t, enrollment.CompletedAt)
	assert.True(t, enrollment.CompletedAt.Equal(first), "repeat writes of 100 keep the original completion time")

	require.NoError(t, updateProgress(db, audit.Discard{}, enrollment, 80))
	assert.Nil(t, enrollment.CompletedAt, "dropping below 100 clears the completion time")
}

func TestRateCourseStoresRatingAndReview(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "s1@test.local")
	course := seedCourse(t, db, 50)
	enrollment, err := enrollStudent(db, audit.Discard{}, student, course)
	require.NoError(t, err)

	assert.ErrorIs(t, rateCourse(db, enrollment, 0, ""), ErrInvalidRating)
	assert.ErrorIs(t, rateCourse(db, enrollment, 6, ""), ErrInvalidRating)

	require.NoError(t, rateCourse(db, enrollment, 4, "Solid course."))

	var stored courseModels.Enrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	require.NotNil(t, stored.Rating)
	assert.Equal(t, 4, *stored.Rating)
	assert.Equal(t, "Solid course.", stored.Review)
}
