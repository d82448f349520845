package communication

import (
	"context"
	"fmt"

	"timekeep.com/timekeep/attendance/core"
	"timekeep.com/timekeep/attendance/model"
)

// EventSink fans session events out to the admin Slack channel and, for
// review outcomes, to the employee by email. It implements core.Publisher;
// the lifecycle manager treats delivery as fire-and-forget.
type EventSink struct {
	Slack       *Slack
	EmailFrom   string
	LookupEmail func(ctx context.Context, employeeID uint) (string, error)
}

func (s *EventSink) Publish(ctx context.Context, event core.Event) error {
	switch ev := event.(type) {
	case core.SessionCreated:
		return s.sessionCreated(ev)
	case core.SessionStatusChanged:
		return s.statusChanged(ctx, ev)
	}
	return nil
}

func (s *EventSink) sessionCreated(ev core.SessionCreated) error {
	if s.Slack == nil {
		return nil
	}
	session := ev.Session
	msg := fmt.Sprintf("%s timed in at %s (%s, %s)",
		session.EmployeeUsername, session.TimeIn.Format("2006-01-02 15:04"), session.Label, session.EntryType)
	if session.Late {
		msg += fmt.Sprintf(" (late by %d min)", session.LateDurationMinutes)
	}
	return s.Slack.Info(msg)
}

func (s *EventSink) statusChanged(ctx context.Context, ev core.SessionStatusChanged) error {
	session := ev.Session

	if s.Slack != nil {
		msg := fmt.Sprintf("session %s for %s: %s -> %s",
			session.ID, session.EmployeeUsername, ev.PreviousStatus, session.Status)
		if err := s.Slack.Info(msg); err != nil {
			return err
		}
	}

	// Employees only care about the review verdict.
	if session.Status != model.StatusApproved && session.Status != model.StatusRejected {
		return nil
	}
	if s.LookupEmail == nil || s.EmailFrom == "" {
		return nil
	}

	email, err := s.LookupEmail(ctx, session.EmployeeID)
	if err != nil || email == "" {
		return err
	}

	body := fmt.Sprintf("Your time session on %s has been %s.",
		session.TimeIn.Format("2006-01-02"), session.Status)
	if session.Remarks != "" {
		body += "\n\nRemarks: " + session.Remarks
	}

	return SendEmail(ctx, &EmailInfo{
		From:    s.EmailFrom,
		To:      []string{email},
		Subject: fmt.Sprintf("Time session %s", session.Status),
		Body:    body,
	})
}
