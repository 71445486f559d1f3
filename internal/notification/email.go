package notification

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"civicworks/internal/config"
	"civicworks/internal/logger"
	"civicworks/internal/models"
)

var (
	dialer *gomail.Dialer
	from   string
)

// Init wires the SMTP dialer. With no SMTP_HOST configured, notifications
// are logged and dropped.
func Init(cfg *config.Config) {
	if cfg.SMTPHost == "" {
		return
	}
	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		port = 587
	}
	dialer = gomail.NewDialer(cfg.SMTPHost, port, cfg.SMTPUser, cfg.SMTPPass)
	from = cfg.MailFrom
	if from == "" {
		from = cfg.SMTPUser
	}
}

// NotifyFileMovement mails the new holder (or the creator on return) that a
// file has landed with them. Best effort; the workflow never waits on it.
func NotifyFileMovement(file models.ProjectFile, to models.User, action models.FileAction, remarks string) {
	if to.Email == "" {
		return
	}

	subject := fmt.Sprintf("File %s: %s", file.FileNumber, action)
	body := fmt.Sprintf(
		"<p>File <b>%s</b> (%s) has been marked <b>%s</b> and is now with you.</p>"+
			"<p>Work: %s<br>Estimated amount: %s</p>",
		file.FileNumber, file.Subject, action,
		file.WorkName, humanize.CommafWithDigits(file.EstimatedAmount, 2),
	)
	if remarks != "" {
		body += fmt.Sprintf("<p>Remarks: %s</p>", remarks)
	}

	if dialer == nil {
		logger.L.Info("mail disabled, skipping notification",
			zap.String("file", file.FileNumber), zap.String("to", to.Email))
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	go func() {
		if err := dialer.DialAndSend(m); err != nil {
			logger.L.Warn("failed to send notification mail",
				zap.String("file", file.FileNumber), zap.Error(err))
		}
	}()
}
