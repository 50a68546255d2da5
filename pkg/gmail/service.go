package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/mail"
	"strings"
	"time"

	emaildomain "triage-backend/internal/email/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Service is the real Gmail-backed MailProvider. It authenticates with a
// long-lived refresh token, the same single-account setup the dashboard
// operates under.
type Service struct {
	clientID     string
	clientSecret string
	refreshToken string
	userEmail    string
}

func NewService(clientID, clientSecret, refreshToken, userEmail string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
		refreshToken: refreshToken,
		userEmail:    userEmail,
	}
}

func (s *Service) Name() string {
	return "gmail"
}

// IsConfigured reports whether enough credentials are present to operate.
func (s *Service) IsConfigured() bool {
	return s.clientID != "" && s.clientSecret != "" && s.refreshToken != "" && s.userEmail != ""
}

func (s *Service) gmailService(ctx context.Context) (*gmail.Service, error) {
	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	token := &oauth2.Token{
		RefreshToken: s.refreshToken,
		TokenType:    "Bearer",
		Expiry:       time.Now(), // force refresh from the refresh token
	}

	client := oauth2.NewClient(ctx, config.TokenSource(ctx, token))
	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return srv, nil
}

// FetchMessages lists recent inbox messages and resolves each to a full
// payload.
func (s *Service) FetchMessages(ctx context.Context, limit int) ([]*emaildomain.IncomingMessage, error) {
	srv, err := s.gmailService(ctx)
	if err != nil {
		return nil, &emaildomain.ProviderError{Provider: "gmail", Op: "fetch", Err: err}
	}

	listResp, err := srv.Users.Messages.List("me").
		Q("in:inbox").
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, s.wrapError("fetch", err)
	}

	messages := make([]*emaildomain.IncomingMessage, 0, len(listResp.Messages))
	for _, ref := range listResp.Messages {
		msg, err := srv.Users.Messages.Get("me", ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, s.wrapError("fetch", err)
		}
		parsed := parseMessage(msg)
		if parsed != nil {
			messages = append(messages, parsed)
		}
	}
	return messages, nil
}

// SendReply dispatches the reply as an RFC 2822 text message, threaded
// onto the original conversation when a thread id is known.
func (s *Service) SendReply(ctx context.Context, reply *emaildomain.OutgoingReply) error {
	srv, err := s.gmailService(ctx)
	if err != nil {
		return &emaildomain.ProviderError{Provider: "gmail", Op: "send", Err: err}
	}

	from := s.userEmail
	if from == "" {
		from = "me"
	}

	var raw strings.Builder
	raw.WriteString(fmt.Sprintf("From: %s\r\n", from))
	raw.WriteString(fmt.Sprintf("To: %s\r\n", reply.To))
	raw.WriteString(fmt.Sprintf("Subject: %s\r\n", reply.Subject))
	raw.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	raw.WriteString("\r\n")
	raw.WriteString(reply.Body)

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw.String())),
	}
	if reply.ThreadID != "" {
		msg.ThreadId = reply.ThreadID
	}

	if _, err := srv.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return s.wrapError("send", err)
	}
	return nil
}

// wrapError separates permission failures from transient ones: a 401/403
// means the operator must re-authorize, anything else is retryable.
func (s *Service) wrapError(op string, err error) error {
	if apiErr, ok := err.(*googleapi.Error); ok {
		if apiErr.Code == 401 || apiErr.Code == 403 {
			return &emaildomain.AuthScopeError{Provider: "gmail", Err: err}
		}
	}
	return &emaildomain.ProviderError{Provider: "gmail", Op: op, Err: err}
}

func parseMessage(msg *gmail.Message) *emaildomain.IncomingMessage {
	if msg == nil || msg.Payload == nil {
		return nil
	}

	headers := map[string]string{}
	for _, h := range msg.Payload.Headers {
		headers[strings.ToLower(h.Name)] = h.Value
	}

	receivedAt := time.Now().UTC()
	if dateStr := headers["date"]; dateStr != "" {
		if parsed, err := mail.ParseDate(dateStr); err == nil {
			receivedAt = parsed
		}
	}

	return &emaildomain.IncomingMessage{
		ProviderID: msg.Id,
		ThreadID:   msg.ThreadId,
		Sender:     headers["from"],
		Recipients: splitAddresses(headers["to"]),
		CC:         splitAddresses(headers["cc"]),
		Subject:    headers["subject"],
		Snippet:    msg.Snippet,
		Body:       extractBody(msg.Payload),
		ReceivedAt: receivedAt,
	}
}

func splitAddresses(header string) []string {
	if header == "" {
		return nil
	}
	parts := strings.Split(header, ",")
	addresses := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			addresses = append(addresses, trimmed)
		}
	}
	return addresses
}

// extractBody decodes the first text/plain part, falling back to
// text/html when no plain part exists.
func extractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	if len(payload.Parts) == 0 {
		if payload.Body != nil && payload.Body.Data != "" {
			return decodePart(payload.Body.Data)
		}
		return ""
	}

	var htmlBody string
	for _, part := range payload.Parts {
		switch part.MimeType {
		case "text/plain":
			if part.Body != nil && part.Body.Data != "" {
				return decodePart(part.Body.Data)
			}
		case "text/html":
			if htmlBody == "" && part.Body != nil && part.Body.Data != "" {
				htmlBody = decodePart(part.Body.Data)
			}
		default:
			// Nested multipart: recurse one level for the plain part.
			if nested := extractBody(part); nested != "" {
				return nested
			}
		}
	}
	return htmlBody
}

func decodePart(data string) string {
	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return string(decoded)
}
