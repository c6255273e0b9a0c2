package policy

import (
	"fmt"
	"testing"

	"lms/models"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func activeUser(id uint, role string) *models.User {
	u := &models.User{Role: role, IsActive: true}
	u.ID = id
	return u
}

func TestIsAuthenticated(t *testing.T) {
	assert.False(t, IsAuthenticated(nil))

	inactive := activeUser(1, models.RoleStudent)
	inactive.IsActive = false
	assert.False(t, IsAuthenticated(inactive))

	assert.True(t, IsAuthenticated(activeUser(1, models.RoleStudent)))
}

func TestRolePredicates(t *testing.T) {
	admin := activeUser(1, models.RoleAdmin)
	teacher := activeUser(2, models.RoleTeacher)
	student := activeUser(3, models.RoleStudent)

	assert.True(t, IsAdminUser(admin))
	assert.False(t, IsAdminUser(teacher))
	assert.False(t, IsAdminUser(student))

	assert.True(t, IsTeacherUser(teacher))
	assert.False(t, IsTeacherUser(admin))

	assert.True(t, IsStudentUser(student))
	assert.False(t, IsStudentUser(teacher))

	assert.True(t, IsTeacherOrAdmin(admin))
	assert.True(t, IsTeacherOrAdmin(teacher))
	assert.False(t, IsTeacherOrAdmin(student))
}

func TestIsEnrolledStudentOrTeacher(t *testing.T) {
	assert.True(t, IsEnrolledStudentOrTeacher(activeUser(1, models.RoleAdmin)))
	assert.True(t, IsEnrolledStudentOrTeacher(activeUser(2, models.RoleTeacher)))
	assert.True(t, IsEnrolledStudentOrTeacher(activeUser(3, models.RoleStudent)))
	assert.False(t, IsEnrolledStudentOrTeacher(activeUser(4, "auditor")),
		"unknown role is denied")
	assert.False(t, IsEnrolledStudentOrTeacher(nil))
}

func TestIsCourseTeacherOrAdmin(t *testing.T) {
	course := courseModels.Course{TeacherID: 2}

	assert.True(t, IsCourseTeacherOrAdmin(activeUser(1, models.RoleAdmin), course),
		"admin passes regardless of ownership")
	assert.True(t, IsCourseTeacherOrAdmin(activeUser(2, models.RoleTeacher), course))
	assert.False(t, IsCourseTeacherOrAdmin(activeUser(3, models.RoleTeacher), course),
		"teacher of a different course is denied")
	assert.False(t, IsCourseTeacherOrAdmin(activeUser(4, models.RoleStudent), course))
}

func TestIsCourseTeacherFailsClosedOnUnscopedTarget(t *testing.T) {
	teacher := activeUser(2, models.RoleTeacher)

	assert.False(t, IsCourseTeacher(teacher, struct{}{}),
		"target without a course scope is denied")
	assert.False(t, IsCourseTeacherOrAdmin(teacher, "not a row"))
}

func TestIsCourseTeacherDeniesUnloadedAssociation(t *testing.T) {
	// Course not preloaded on the weekly detail: TeacherID resolves to 0,
	// which can never equal a real user id.
	week := courseModels.WeeklyDetail{CourseID: 7}
	assert.False(t, IsCourseTeacher(activeUser(2, models.RoleTeacher), week))
}

func TestIsOwnerOrAdmin(t *testing.T) {
	enrollment := courseModels.Enrollment{StudentID: 3}

	assert.True(t, IsOwnerOrAdmin(activeUser(1, models.RoleAdmin), enrollment))
	assert.True(t, IsOwnerOrAdmin(activeUser(3, models.RoleStudent), enrollment))
	assert.False(t, IsOwnerOrAdmin(activeUser(4, models.RoleStudent), enrollment))
	assert.False(t, IsOwnerOrAdmin(activeUser(4, models.RoleStudent), struct{}{}),
		"target without an owner is denied")
}

func TestIsEnrolledStudent(t *testing.T) {
	course := courseModels.Course{}
	course.ID = 7
	student := activeUser(3, models.RoleStudent)

	enrolledIn7 := func(studentID, courseID uint) bool {
		return studentID == 3 && courseID == 7
	}

	assert.True(t, IsEnrolledStudent(student, course, enrolledIn7))
	assert.False(t, IsEnrolledStudent(activeUser(4, models.RoleStudent), course, enrolledIn7))
	assert.False(t, IsEnrolledStudent(activeUser(2, models.RoleTeacher), course, enrolledIn7),
		"only the student role goes through the enrollment gate")
	assert.False(t, IsEnrolledStudent(student, struct{}{}, enrolledIn7),
		"target without a course reference is denied")
}

func TestNewEnrollmentChecker(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&courseModels.Enrollment{}))

	require.NoError(t, db.Create(&courseModels.Enrollment{StudentID: 3, CourseID: 7, IsActive: true}).Error)
	require.NoError(t, db.Create(&courseModels.Enrollment{StudentID: 4, CourseID: 7, IsActive: false}).Error)

	enrolled := NewEnrollmentChecker(db)
	assert.True(t, enrolled(3, 7))
	assert.False(t, enrolled(3, 8))
	assert.False(t, enrolled(4, 7), "inactive enrollment does not grant access")
	assert.False(t, enrolled(5, 7))
}
