// Package contact validates contact-form submissions, delivers them by email and
// keeps the local message log used when email delivery is not possible.
package contact

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Normalize trims surrounding whitespace from every text field.
func Normalize(msg models.ContactMessage) models.ContactMessage {
	msg.SenderName = strings.TrimSpace(msg.SenderName)
	msg.SenderEmail = strings.TrimSpace(msg.SenderEmail)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Body = strings.TrimSpace(msg.Body)
	return msg
}

// Validate checks a submission. Name, email and message are required; subject is optional.
func Validate(msg models.ContactMessage) error {
	err := validation.ValidateStruct(&msg,
		validation.Field(&msg.SenderName, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&msg.SenderEmail, validation.Required,
			validation.By(emailRule)),
		validation.Field(&msg.Subject, validation.RuneLength(0, 200)),
		validation.Field(&msg.Body, validation.Required, validation.RuneLength(1, 10000)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidArgument, err)
	}
	return nil
}

func emailRule(value any) error {
	if s, _ := value.(string); !ValidEmail(s) {
		return errors.New("must be a valid email address")
	}
	return nil
}

// ValidEmail reports whether addr looks like an email address.
func ValidEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}
