package services

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

// PushService sends APNs notifications to users who registered a device
// token on their profile. A nil *PushService is a valid no-op sender, so
// callers never need to check whether push is configured.
type PushService struct {
	client *apns2.Client
	topic  string
}

// NewPushService creates an APNs push service from a .p8 signing key
func NewPushService(keyFile, keyID, teamID, topic string) (*PushService, error) {
	authKey, err := token.AuthKeyFromFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs auth key: %w", err)
	}

	t := &token.Token{
		AuthKey: authKey,
		KeyID:   keyID,
		TeamID:  teamID,
	}

	return &PushService{
		client: apns2.NewTokenClient(t).Production(),
		topic:  topic,
	}, nil
}

// NotifyBookingRequested pushes a new-request alert to the owner's device
func (s *PushService) NotifyBookingRequested(deviceToken string) {
	if s == nil || deviceToken == "" {
		return
	}
	s.push(deviceToken, payload.NewPayload().
		AlertTitle("New booking request").
		AlertBody("Someone wants to rent one of your listings").
		Sound("default"))
}

// NotifyBookingStatusChanged pushes a status-change alert to a participant
func (s *PushService) NotifyBookingStatusChanged(deviceToken, status string) {
	if s == nil || deviceToken == "" {
		return
	}
	s.push(deviceToken, payload.NewPayload().
		AlertTitle("Booking update").
		AlertBody(fmt.Sprintf("Your booking is now %s", status)).
		Sound("default"))
}

func (s *PushService) push(deviceToken string, p *payload.Payload) {
	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       s.topic,
		Payload:     p,
	}

	res, err := s.client.Push(notification)
	if err != nil {
		log.Error().Err(err).Msg("Failed to send push notification")
		return
	}
	if !res.Sent() {
		log.Warn().
			Int("status", res.StatusCode).
			Str("reason", res.Reason).
			Msg("Push notification rejected")
	}
}
