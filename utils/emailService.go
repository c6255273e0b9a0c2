package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"lms/config"
)

// SendEmail delivers an HTML email through the configured SMTP relay. A
// missing sender disables mail silently so local setups work without SMTP.
func SendEmail(to []string, subject string, htmlBody string) error {
	from := config.AppConfig.EmailSender
	if from == "" {
		return nil
	}

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: LMS <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, config.AppConfig.EmailPassword, config.AppConfig.SMTPHost)
	addr := config.AppConfig.SMTPHost + ":" + config.AppConfig.SMTPPort

	if err := smtp.SendMail(addr, auth, from, to, []byte(msg)); err != nil {
		log.Printf("Failed to send email to %v: %v", to, err)
		return err
	}
	return nil
}

// SendEnrollmentEmail notifies a student that their enrollment went through.
func SendEnrollmentEmail(email, name, courseTitle string) {
	subject := "Enrollment Confirmed: " + courseTitle
	body := fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Your enrollment in <strong>%s</strong> is confirmed.</p>
		<p>Head to your dashboard to see the weekly plan and study materials.</p>`,
		name, courseTitle)
	if err := SendEmail([]string{email}, subject, body); err != nil {
		log.Printf("Enrollment email to %s failed: %v", email, err)
	}
}

// SendExamResultEmail notifies a student of their graded attempt.
func SendExamResultEmail(email, name, examTitle string, score, totalMarks int, passed bool) {
	verdict := "did not pass"
	if passed {
		verdict = "passed"
	}
	subject := "Exam Result: " + examTitle
	body := fmt.Sprintf(`
		<h2>Hi %s,</h2>
		<p>Your attempt on <strong>%s</strong> has been graded.</p>
		<p>Score: <strong>%d / %d</strong> &mdash; you %s.</p>`,
		name, examTitle, score, totalMarks, verdict)
	if err := SendEmail([]string{email}, subject, body); err != nil {
		log.Printf("Exam result email to %s failed: %v", email, err)
	}
}
