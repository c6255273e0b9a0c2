package utils

import (
	"fmt"
	"log"
	"time"

	"lms/audit"
	"lms/database"
	examModels "lms/models/exam"

	"github.com/robfig/cron/v3"
)

func logScheduler(message string) {
	log.Printf("[ATTEMPT-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// expireStaleAttempts abandons in-progress attempts whose exam window has
// closed without a submission. Score stays zero and the attempt becomes
// terminal, so the student's single shot is spent.
func expireStaleAttempts() {
	db := database.Database.Db
	now := time.Now()

	var attempts []examModels.ExamAttempt
	if err := db.
		Joins("JOIN exams ON exams.id = exam_attempts.exam_id").
		Where("exam_attempts.status = ? AND exams.end_time < ?", examModels.AttemptInProgress, now).
		Find(&attempts).Error; err != nil {
		logScheduler("Error fetching stale attempts: " + err.Error())
		return
	}

	for _, attempt := range attempts {
		attempt.Status = examModels.AttemptAbandoned
		completedAt := now
		attempt.CompletedAt = &completedAt
		if err := db.Save(&attempt).Error; err != nil {
			logScheduler(fmt.Sprintf("Error abandoning attempt %d: %v", attempt.ID, err))
			continue
		}

		audit.Default.Record("attempt.abandoned", map[string]any{
			"attemptId": attempt.ID,
			"examId":    attempt.ExamID,
			"studentId": attempt.StudentID,
		})
		logScheduler(fmt.Sprintf("Attempt %d abandoned after exam window closed", attempt.ID))
	}

	if len(attempts) > 0 {
		logScheduler(fmt.Sprintf("Abandoned %d stale attempt(s)", len(attempts)))
	}
}

// InitAttemptScheduler starts the background job that sweeps for attempts
// left open past their exam's end time.
func InitAttemptScheduler() *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("*/5 * * * *", expireStaleAttempts); err != nil {
		log.Fatalf("Failed to schedule attempt expiry job: %v", err)
	}

	c.Start()
	logScheduler("Attempt expiry scheduler started (every 5 minutes)")
	return c
}
