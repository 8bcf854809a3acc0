package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvitationSubject(t *testing.T) {
	assert.Equal(t, "Interview Invitation: Data Engineer Position", InvitationSubject("Data Engineer"))
}

func TestSMTPSender_CancelledContext(t *testing.T) {
	s := NewSMTPSender("smtp.example.com", 587, "user", "pass", "hr@example.com")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, "jane@example.com", "subject", "body")
	assert.ErrorIs(t, err, context.Canceled)
}
