package utils

import (
	"fmt"
	"testing"
	"time"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	examModels "lms/models/exam"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSchedulerDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	prev := database.Database
	database.Database = database.DbInstance{Db: db}
	t.Cleanup(func() { database.Database = prev })
	return db
}

func seedAttempt(t *testing.T, db *gorm.DB, endTime time.Time, status string) examModels.ExamAttempt {
	t.Helper()

	teacher := models.User{Name: "Teacher", Email: fmt.Sprintf("t-%d@test.local", time.Now().UnixNano()), Password: "x", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&teacher).Error)
	student := models.User{Name: "Student", Email: fmt.Sprintf("s-%d@test.local", time.Now().UnixNano()), Password: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	course := courseModels.Course{Title: "Course", TeacherID: teacher.ID, Fee: 0, IsActive: true}
	require.NoError(t, db.Create(&course).Error)

	ex := examModels.Exam{
		Title:       "Quiz",
		CourseID:    course.ID,
		StartTime:   endTime.Add(-time.Hour),
		EndTime:     endTime,
		IsActive:    true,
		CreatedByID: teacher.ID,
	}
	require.NoError(t, db.Create(&ex).Error)

	attempt := examModels.ExamAttempt{StudentID: student.ID, ExamID: ex.ID, Status: status}
	require.NoError(t, db.Create(&attempt).Error)
	return attempt
}

func TestExpireStaleAttemptsAbandonsClosedWindows(t *testing.T) {
	db := newSchedulerDB(t)
	stale := seedAttempt(t, db, time.Now().Add(-time.Minute), examModels.AttemptInProgress)

	expireStaleAttempts()

	var got examModels.ExamAttempt
	require.NoError(t, db.First(&got, stale.ID).Error)
	assert.Equal(t, examModels.AttemptAbandoned, got.Status)
	assert.NotNil(t, got.CompletedAt)
	assert.Equal(t, 0, got.Score)
	assert.False(t, got.IsPassed)
}

func TestExpireStaleAttemptsLeavesOpenWindowsAlone(t *testing.T) {
	db := newSchedulerDB(t)
	ongoing := seedAttempt(t, db, time.Now().Add(time.Hour), examModels.AttemptInProgress)

	expireStaleAttempts()

	var got examModels.ExamAttempt
	require.NoError(t, db.First(&got, ongoing.ID).Error)
	assert.Equal(t, examModels.AttemptInProgress, got.Status)
}

func TestExpireStaleAttemptsSkipsCompleted(t *testing.T) {
	db := newSchedulerDB(t)
	done := seedAttempt(t, db, time.Now().Add(-time.Minute), examModels.AttemptCompleted)

	expireStaleAttempts()

	var got examModels.ExamAttempt
	require.NoError(t, db.First(&got, done.ID).Error)
	assert.Equal(t, examModels.AttemptCompleted, got.Status)
}

func TestDetectFileType(t *testing.T) {
	assert.Equal(t, "document", DetectFileType("syllabus.pdf"))
	assert.Equal(t, "document", DetectFileType("notes.DOCX"))
	assert.Equal(t, "video", DetectFileType("lecture.mp4"))
	assert.Equal(t, "image", DetectFileType("diagram.png"))
	assert.Equal(t, "other", DetectFileType("archive.zip"))
	assert.Equal(t, "other", DetectFileType("README"))
}
