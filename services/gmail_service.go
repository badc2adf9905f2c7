package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// One fetched email, body already decoded (HTML preferred).
type EmailMessage struct {
	ID      string
	Subject string
	Body    string
	Date    time.Time
}

// EmailFetcher lets the sync pipeline run against a fake inbox in tests.
type EmailFetcher interface {
	FetchOrderEmails(ctx context.Context, sender, afterDate string) ([]EmailMessage, error)
}

type GmailService struct {
	svc *gmail.Service
}

// NewGmailService builds a Gmail client from the user's stored Google
// tokens. The oauth2 token source refreshes the access token when a
// refresh token is available.
func NewGmailService(ctx context.Context, accessToken, refreshToken string, expiry *time.Time) (*GmailService, error) {
	conf := &oauth2.Config{
		ClientID:     config.Settings.GoogleClientID,
		ClientSecret: config.Settings.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailReadonlyScope},
	}

	tok := &oauth2.Token{AccessToken: accessToken, RefreshToken: refreshToken}
	if expiry != nil {
		tok.Expiry = *expiry
	} else if refreshToken != "" {
		// Unknown expiry: assume stale so the source refreshes up front.
		tok.Expiry = time.Now().Add(-time.Minute)
	}

	svc, err := gmail.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail client: %w", err)
	}
	return &GmailService{svc: svc}, nil
}

// FetchOrderEmails lists all messages from the given sender after the
// given date (YYYY-MM-DD), following pagination.
func (g *GmailService) FetchOrderEmails(ctx context.Context, sender, afterDate string) ([]EmailMessage, error) {
	// Gmail query dates use slashes: from:sender after:YYYY/MM/DD
	query := fmt.Sprintf("from:%s after:%s", sender, strings.ReplaceAll(afterDate, "-", "/"))

	var emails []EmailMessage
	pageToken := ""

	for {
		call := g.svc.Users.Messages.List("me").Q(query).MaxResults(100)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		results, err := call.Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}

		for _, summary := range results.Messages {
			msg, err := g.svc.Users.Messages.Get("me", summary.Id).Format("full").Context(ctx).Do()
			if err != nil {
				log.Printf("Error fetching message %s: %v", summary.Id, err)
				continue
			}
			if email, ok := parseGmailMessage(msg); ok {
				emails = append(emails, email)
			}
		}

		pageToken = results.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return emails, nil
}

func parseGmailMessage(msg *gmail.Message) (EmailMessage, bool) {
	if msg.Payload == nil {
		return EmailMessage{}, false
	}

	out := EmailMessage{ID: msg.Id, Date: time.Now()}
	for _, header := range msg.Payload.Headers {
		switch strings.ToLower(header.Name) {
		case "subject":
			out.Subject = header.Value
		case "date":
			if d, err := mail.ParseDate(header.Value); err == nil {
				out.Date = d
			}
		}
	}

	out.Body = extractBody(msg.Payload)
	return out, true
}

// extractBody walks the (possibly nested) MIME parts, preferring HTML
// because the bill structure lives in the markup.
func extractBody(payload *gmail.MessagePart) string {
	var bodyHTML, bodyText string

	if payload.Body != nil && payload.Body.Data != "" {
		decoded := decodeBase64URL(payload.Body.Data)
		if strings.Contains(payload.MimeType, "html") {
			bodyHTML = decoded
		} else {
			bodyText = decoded
		}
	}

	for _, part := range payload.Parts {
		if part.Body != nil && part.Body.Data != "" {
			decoded := decodeBase64URL(part.Body.Data)
			if strings.Contains(part.MimeType, "html") {
				bodyHTML = decoded
			} else if strings.Contains(part.MimeType, "plain") {
				bodyText = decoded
			}
		}

		if len(part.Parts) > 0 {
			nested := extractBody(part)
			if nested == "" {
				continue
			}
			if bodyHTML == "" && strings.Contains(strings.ToLower(nested), "<html") {
				bodyHTML = nested
			} else if bodyText == "" {
				bodyText = nested
			}
		}
	}

	if bodyHTML != "" {
		return bodyHTML
	}
	return bodyText
}

func decodeBase64URL(data string) string {
	if b, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(b)
	}
	b, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return ""
	}
	return string(b)
}
