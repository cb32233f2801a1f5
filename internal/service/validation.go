package service

import (
	"fmt"
	"time"
	"unicode/utf8"

	"social-automation-service/internal/entity"
)

const MaxPromptLength = 1000

type CreateJobRequest struct {
	UserID       string
	Prompt       string
	Platform     string
	Type         string
	Caption      *string
	ScheduleTime *time.Time
}

// Validate returns a *ValidationError for the first violated rule, checking
// required fields in the order userId, prompt, platform, type.
func (r CreateJobRequest) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"userId", r.UserID},
		{"prompt", r.Prompt},
		{"platform", r.Platform},
		{"type", r.Type},
	}
	for _, f := range required {
		if f.value == "" {
			return missingField(f.field)
		}
	}

	if _, ok := entity.ParsePlatform(r.Platform); !ok {
		return &ValidationError{Field: "platform", Message: fmt.Sprintf("invalid platform: %s", r.Platform)}
	}

	if utf8.RuneCountInString(r.Prompt) > MaxPromptLength {
		return &ValidationError{
			Field:   "prompt",
			Message: fmt.Sprintf("prompt too long (max %d characters)", MaxPromptLength),
		}
	}

	return nil
}
