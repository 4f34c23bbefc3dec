// Package mailer sends PlanPal notification emails through AWS SES.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/planpal/planpal-services/models"
	"github.com/rs/zerolog/log"
)

const dateLayout = "Mon 02 Jan 2006"

var ErrNoRecipients = errors.New("no recipients")

// EmailClient is the subset of the SES client used by Mailer.
type EmailClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type Mailer struct {
	Client EmailClient
	From   string
}

// Send delivers a plain text email to every recipient.
func (m *Mailer) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return ErrNoRecipients
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.From),
		Destination: &types.Destination{
			ToAddresses: to,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	}

	if _, err := m.Client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Debug().Int("recipients", len(to)).Str("subject", subject).Msg("Email sent")
	return nil
}

// SendGroupInvitation tells new members they were added to a group.
func (m *Mailer) SendGroupInvitation(ctx context.Context, to []string, groupName string) error {
	subject := fmt.Sprintf("You have been added to %s", groupName)
	body := fmt.Sprintf("Hi,\n\nYou are now a member of the PlanPal group %q. "+
		"Sign in to see its trips and events.\n\nPlanPal", groupName)
	return m.Send(ctx, to, subject, body)
}

// SendEventNotice tells group members that an event was scheduled or changed.
func (m *Mailer) SendEventNotice(ctx context.Context, to []string, groupName string, event models.Event, updated bool) error {
	verb := "scheduled"
	if updated {
		verb = "updated"
	}
	subject := fmt.Sprintf("[%s] %s %s", groupName, event.Title, verb)
	return m.Send(ctx, to, subject, eventBody(event))
}

// SendReminder reminds group members of an upcoming event.
func (m *Mailer) SendReminder(ctx context.Context, to []string, groupName string, event models.Event) error {
	subject := fmt.Sprintf("[%s] Reminder: %s on %s", groupName, event.Title, event.Date.Format(dateLayout))
	return m.Send(ctx, to, subject, eventBody(event))
}

func eventBody(event models.Event) string {
	body := fmt.Sprintf("%s\n\nWhen: %s\n", event.Title, event.Date.Format(dateLayout))
	if event.Location != "" {
		body += fmt.Sprintf("Where: %s\n", event.Location)
	}
	if event.Description != "" {
		body += "\n" + event.Description + "\n"
	}
	return body + "\nPlanPal"
}
