package communication

import (
	"fmt"
	"log"

	"github.com/slack-go/slack"
)

// Slack posts operator alerts for blocked high-risk scans.
type Slack struct {
	client    *slack.Client
	channelID string
}

func NewSlack(token, channelID string) *Slack {
	return &Slack{client: slack.New(token), channelID: channelID}
}

// SecurityAlert satisfies security.Notifier. Delivery is best-effort: a
// Slack outage must never fail a scan, so errors only get logged.
func (s *Slack) SecurityAlert(message string) {
	_, _, err := s.client.PostMessage(
		s.channelID,
		slack.MsgOptionText(fmt.Sprintf(":rotating_light: %s", message), false),
	)
	if err != nil {
		log.Printf("slack alert failed: %v", err)
	}
}
