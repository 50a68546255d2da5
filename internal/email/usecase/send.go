package usecase

import (
	"context"
	"log"
	"strings"

	emaildomain "triage-backend/internal/email/domain"
)

// Send dispatches the reply through the mail provider and records what was
// actually sent. The operator's edited body wins over the stored draft; an
// empty body falls back to the draft. The stored row only moves to
// reply_sent after the provider accepted the message.
func (u *triageUsecase) Send(ctx context.Context, id, body string) (*emaildomain.Email, error) {
	email, err := u.emailRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	switch email.ProcessingStatus {
	case emaildomain.StatusReplySent:
		return nil, &emaildomain.ConflictError{Op: "send_reply", Reason: "reply already sent"}
	case emaildomain.StatusReplyGenerated:
		// ok
	default:
		return nil, &emaildomain.PreconditionError{
			Op:     "send_reply",
			Status: email.ProcessingStatus,
			Reason: "no generated reply to send",
		}
	}

	if body == "" {
		if email.SuggestedReply == nil || *email.SuggestedReply == "" {
			return nil, &emaildomain.PreconditionError{
				Op:     "send_reply",
				Status: email.ProcessingStatus,
				Reason: "no reply body available",
			}
		}
		body = *email.SuggestedReply
	}

	reply := &emaildomain.OutgoingReply{
		To:       email.Sender,
		Subject:  replySubject(email.Subject),
		Body:     body,
		ThreadID: email.ThreadID,
	}

	sendCtx, cancel := context.WithTimeout(ctx, u.stageWait)
	defer cancel()

	if err := u.mailProvider.SendReply(sendCtx, reply); err != nil {
		return nil, err
	}

	if err := u.emailRepo.MarkSent(id, body); err != nil {
		return nil, err
	}
	log.Printf("[Triage] sent reply for %s to %s", id, email.Sender)
	return u.emailRepo.GetByID(id)
}

// replySubject prefixes "Re: " unless the subject already carries one.
func replySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	return "Re: " + subject
}
