// Package policy centralizes authorization decisions. Controllers call these
// predicates before any state-mutating operation instead of performing ad-hoc
// role checks. Every predicate is a pure permit/deny function of the
// requesting user and, for object-level checks, the target row; none of them
// mutate state.
//
// Object-level predicates resolve ownership through the capability
// interfaces below, implemented per model. A target that implements neither
// interface is denied: the engine fails closed.
package policy

import (
	"lms/models"
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// Owned is implemented by rows with a single owning user (the student on an
// enrollment or attempt, the teacher on a salary record, the uploader on a
// file).
type Owned interface {
	OwnerID() uint
}

// CourseScoped is implemented by rows whose mutation is gated on the teacher
// of the owning course. The course association must be loaded before the
// check; an unloaded association yields teacher id 0 and therefore a denial.
type CourseScoped interface {
	CourseTeacherID() uint
}

// CourseRef exposes the owning course of a row for enrollment gating.
type CourseRef interface {
	ScopeCourseID() uint
}

// EnrollmentChecker reports whether a student holds an active enrollment in a
// course. The ledger-backed implementation lives in NewEnrollmentChecker;
// tests substitute their own.
type EnrollmentChecker func(studentID, courseID uint) bool

// NewEnrollmentChecker returns a checker backed by the enrollment ledger.
func NewEnrollmentChecker(db *gorm.DB) EnrollmentChecker {
	return func(studentID, courseID uint) bool {
		var count int64
		db.Model(&courseModels.Enrollment{}).
			Where("student_id = ? AND course_id = ? AND is_active = ?", studentID, courseID, true).
			Count(&count)
		return count > 0
	}
}

// IsAuthenticated permits any active, authenticated user.
func IsAuthenticated(user *models.User) bool {
	return user != nil && user.IsActive
}

// IsTeacherOrAdmin permits authenticated teachers and admins.
func IsTeacherOrAdmin(user *models.User) bool {
	return IsAuthenticated(user) && (user.Role == models.RoleTeacher || user.Role == models.RoleAdmin)
}

// IsAdminUser permits only authenticated admins.
func IsAdminUser(user *models.User) bool {
	return IsAuthenticated(user) && user.Role == models.RoleAdmin
}

// IsTeacherUser permits only authenticated teachers.
func IsTeacherUser(user *models.User) bool {
	return IsAuthenticated(user) && user.Role == models.RoleTeacher
}

// IsStudentUser permits only authenticated students.
func IsStudentUser(user *models.User) bool {
	return IsAuthenticated(user) && user.Role == models.RoleStudent
}

// IsEnrolledStudentOrTeacher permits any authenticated user carrying one of
// the three known roles.
func IsEnrolledStudentOrTeacher(user *models.User) bool {
	if !IsAuthenticated(user) {
		return false
	}
	switch user.Role {
	case models.RoleStudent, models.RoleTeacher, models.RoleAdmin:
		return true
	}
	return false
}

// IsCourseTeacherOrAdmin permits admins unconditionally; teachers only when
// they teach the course the target belongs to. Everyone else, and any target
// without a course scope, is denied.
func IsCourseTeacherOrAdmin(user *models.User, target any) bool {
	if !IsAuthenticated(user) {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}
	if user.Role != models.RoleTeacher {
		return false
	}
	scoped, ok := target.(CourseScoped)
	if !ok {
		return false
	}
	return scoped.CourseTeacherID() == user.ID
}

// IsCourseTeacher is the admin-less variant of IsCourseTeacherOrAdmin.
func IsCourseTeacher(user *models.User, target any) bool {
	if !IsAuthenticated(user) || user.Role != models.RoleTeacher {
		return false
	}
	scoped, ok := target.(CourseScoped)
	if !ok {
		return false
	}
	return scoped.CourseTeacherID() == user.ID
}

// IsOwnerOrAdmin permits admins unconditionally, otherwise only the owner of
// the target row.
func IsOwnerOrAdmin(user *models.User, target any) bool {
	if !IsAuthenticated(user) {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}
	owned, ok := target.(Owned)
	if !ok {
		return false
	}
	return owned.OwnerID() == user.ID
}

// IsEnrolledStudent permits a student who holds an active enrollment in the
// course the target belongs to.
func IsEnrolledStudent(user *models.User, target any, enrolled EnrollmentChecker) bool {
	if !IsAuthenticated(user) || user.Role != models.RoleStudent {
		return false
	}
	ref, ok := target.(CourseRef)
	if !ok {
		return false
	}
	return enrolled(user.ID, ref.ScopeCourseID())
}
