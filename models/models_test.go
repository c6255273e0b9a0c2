package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserBeforeSaveForcesAdminRoleForSuperuser(t *testing.T) {
	user := User{Role: RoleTeacher, IsSuperuser: true}
	require.NoError(t, user.BeforeSave(nil))
	assert.Equal(t, RoleAdmin, user.Role)
}

func TestUserBeforeSaveLeavesRegularRolesAlone(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleTeacher, RoleStudent} {
		user := User{Role: role}
		require.NoError(t, user.BeforeSave(nil))
		assert.Equal(t, role, user.Role)
	}
}

func TestTeacherSalaryBeforeSaveDerivesTotal(t *testing.T) {
	salary := TeacherSalary{BaseSalary: 50000, Bonus: 5000, Deductions: 1200}
	require.NoError(t, salary.BeforeSave(nil))
	assert.Equal(t, 53800.0, salary.TotalSalary)
}

func TestTeacherSalaryBeforeSaveOverwritesStaleTotal(t *testing.T) {
	salary := TeacherSalary{BaseSalary: 40000, TotalSalary: 99999}
	require.NoError(t, salary.BeforeSave(nil))
	assert.Equal(t, 40000.0, salary.TotalSalary)
}

func intPtr(v int) *int { return &v }

func TestStudentProgressBeforeSaveAveragesPresentScores(t *testing.T) {
	progress := StudentProgress{
		AttendancePercentage: 90,
		AssignmentScore:      intPtr(80),
		QuizScore:            intPtr(71),
		ParticipationScore:   intPtr(60),
	}
	require.NoError(t, progress.BeforeSave(nil))
	assert.Equal(t, 70, progress.OverallScore, "integer mean of 80, 71, 60")
}

func TestStudentProgressBeforeSaveIgnoresMissingComponents(t *testing.T) {
	progress := StudentProgress{
		AttendancePercentage: 90,
		QuizScore:            intPtr(55),
	}
	require.NoError(t, progress.BeforeSave(nil))
	assert.Equal(t, 55, progress.OverallScore, "only the present component counts")
}

func TestStudentProgressBeforeSaveFallsBackToAttendance(t *testing.T) {
	progress := StudentProgress{AttendancePercentage: 85}
	require.NoError(t, progress.BeforeSave(nil))
	assert.Equal(t, 85, progress.OverallScore)
}
