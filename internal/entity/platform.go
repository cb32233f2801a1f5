package entity

import "time"

type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTikTok    Platform = "tiktok"
)

var platforms = []Platform{PlatformInstagram, PlatformTwitter, PlatformLinkedIn, PlatformTikTok}

// Platforms returns the supported platforms in a stable order.
func Platforms() []Platform {
	out := make([]Platform, len(platforms))
	copy(out, platforms)
	return out
}

func (p Platform) Valid() bool {
	for _, known := range platforms {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePlatform is case-sensitive, matching the values stored in user_credentials.provider.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(s)
	return p, p.Valid()
}

// Credentials are the per-user, per-platform tokens owned by the credential store.
type Credentials struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether ExpiresAt is set and already in the past.
func (c *Credentials) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// SubmissionPayload is the JSON body posted to the automation webhook.
type SubmissionPayload struct {
	UserID       string     `json:"user_id"`
	Prompt       string     `json:"prompt"`
	Platform     Platform   `json:"platform"`
	Caption      *string    `json:"caption,omitempty"`
	AccessToken  string     `json:"access_token"`
	ScheduleTime *time.Time `json:"schedule_time"`
}
