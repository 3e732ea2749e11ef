// Package notify delivers user-facing quiz notifications.
package notify

import (
	"fmt"
	"io"
	"log"
	"time"

	"cquiz/internal/domain"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(l *zap.Logger) *LogNotifier {
	return &LogNotifier{log: l.Named("notify")}
}

func (n *LogNotifier) Notify(message string, severity domain.Severity) {
	field := zap.String("severity", string(severity))
	switch severity {
	case domain.SeverityError:
		n.log.Error(message, field)
	case domain.SeverityWarning:
		n.log.Warn(message, field)
	default:
		n.log.Info(message, field)
	}
}

// ConsoleNotifier prints colored one-line notifications, for terminals.
type ConsoleNotifier struct {
	l   *log.Logger
	now func() time.Time
}

func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{
		l:   log.New(out, "", 0),
		now: time.Now,
	}
}

func (c *ConsoleNotifier) Notify(message string, severity domain.Severity) {
	label := string(severity) + ":"

	switch severity {
	case domain.SeveritySuccess:
		label = color.GreenString(label)
	case domain.SeverityInfo:
		label = color.HiBlueString(label)
	case domain.SeverityWarning:
		label = color.YellowString(label)
	case domain.SeverityError:
		label = color.RedString(label)
	}

	c.l.Println(c.now().Format("15:04:05.000"), label, message)
}

// Multi fans a notification out to every wrapped notifier.
type Multi []domain.Notifier

func (m Multi) Notify(message string, severity domain.Severity) {
	for _, n := range m {
		if n != nil {
			n.Notify(message, severity)
		}
	}
}

// Summary formats a finished session for display.
func Summary(s domain.Summary) string {
	return fmt.Sprintf("Quiz completed! Score: %d/%d (%.0f%%) in %s",
		s.Score, s.Total, s.Accuracy, s.Duration.Round(time.Second))
}
