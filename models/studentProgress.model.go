package models

import "gorm.io/gorm"

// StudentProgress is the teacher-maintained weekly scorecard for a student in
// a course. One row per (student, course, week). Component scores are 0-100;
// OverallScore is derived on save.
type StudentProgress struct {
	gorm.Model
	StudentID            uint   `json:"student_id" gorm:"not null;uniqueIndex:idx_progress_week"`
	Student              User   `json:"-" gorm:"foreignKey:StudentID"`
	CourseID             uint   `json:"course_id" gorm:"not null;uniqueIndex:idx_progress_week"`
	WeekNumber           int    `json:"week_number" gorm:"not null;uniqueIndex:idx_progress_week"`
	AttendancePercentage int    `json:"attendance_percentage" gorm:"default:0"`
	AssignmentScore      *int   `json:"assignment_score"`
	QuizScore            *int   `json:"quiz_score"`
	ParticipationScore   *int   `json:"participation_score"`
	OverallScore         int    `json:"overall_score" gorm:"default:0"`
	TeacherNotes         string `json:"teacher_notes"`
}

// BeforeSave computes the overall score as the integer mean of the component
// scores that are present, falling back to attendance when none are.
func (p *StudentProgress) BeforeSave(tx *gorm.DB) error {
	var scores []int
	for _, s := range []*int{p.AssignmentScore, p.QuizScore, p.ParticipationScore} {
		if s != nil {
			scores = append(scores, *s)
		}
	}
	if len(scores) == 0 {
		p.OverallScore = p.AttendancePercentage
		return nil
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	p.OverallScore = sum / len(scores)
	return nil
}

func (p StudentProgress) OwnerID() uint {
	return p.StudentID
}
