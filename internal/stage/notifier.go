package stage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"talentflow/internal/email"
	"talentflow/internal/pipeline"
)

// Notifier consumes email_queue and sends the interview invitation. Send
// failures are logged but not retried: a requeued send could double-email a
// candidate, and a missed invitation is recoverable from the matches table.
type Notifier struct {
	oracle  InvitationWriter
	sender  email.Sender
	matches MatchMarker
	company string
	timeout time.Duration
}

func NewNotifier(oracle InvitationWriter, sender email.Sender, matches MatchMarker, company string, timeout time.Duration) *Notifier {
	return &Notifier{oracle: oracle, sender: sender, matches: matches, company: company, timeout: timeout}
}

func (n *Notifier) Process(ctx context.Context, body []byte) (pipeline.Outcome, error) {
	var msg pipeline.EmailMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return pipeline.Drop, fmt.Errorf("decode email message: %w", err)
	}
	if err := msg.Validate(); err != nil {
		return pipeline.Drop, err
	}
	ctx = withCorrelation(ctx, msg.CorrelationID)

	subject := email.InvitationSubject(msg.JobTitle)
	bodyText := n.compose(ctx, &msg)

	sctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	if err := n.sender.Send(sctx, msg.CandidateEmail, subject, bodyText); err != nil {
		slog.ErrorContext(ctx, "invitation send failed", "match_id", msg.MatchID, "to", msg.CandidateEmail, "error", err)
		return pipeline.Done, nil
	}
	if err := n.matches.MarkEmailSent(ctx, msg.MatchID); err != nil {
		slog.ErrorContext(ctx, "mark email sent failed", "match_id", msg.MatchID, "error", err)
	}

	slog.InfoContext(ctx, "invitation sent", "match_id", msg.MatchID, "job_title", msg.JobTitle, "candidate_id", msg.CandidateID)
	return pipeline.Done, nil
}

// compose asks the oracle for a personalized invitation and falls back to a
// fixed template when it cannot deliver one. The invitation always goes out.
func (n *Notifier) compose(ctx context.Context, msg *pipeline.EmailMessage) string {
	octx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	body, err := n.oracle.GenerateInvitation(octx, n.company, msg.CandidateName, msg.JobTitle, msg.MatchingDetails)
	if err == nil && body != "" {
		return body
	}
	if err != nil {
		slog.WarnContext(ctx, "invitation generation failed, using template", "match_id", msg.MatchID, "error", err)
	}
	return n.templateBody(msg)
}

func (n *Notifier) templateBody(msg *pipeline.EmailMessage) string {
	name := msg.CandidateName
	if name == "" {
		name = "Candidate"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", name)
	fmt.Fprintf(&b, "We reviewed your application for the %s position and were impressed by your background", msg.JobTitle)
	if len(msg.MatchingDetails.MatchingSkills) > 0 {
		fmt.Fprintf(&b, ", particularly your experience with %s", strings.Join(msg.MatchingDetails.MatchingSkills, ", "))
	}
	b.WriteString(".\n\nWe would like to invite you to an interview. Please reply to this email to schedule a time that works for you.\n\n")
	fmt.Fprintf(&b, "Best regards,\n%s Recruiting Team\n", n.company)
	return b.String()
}
