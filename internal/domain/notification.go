package domain

// NotificationChannel enumerates supported customer contact channels.
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "EMAIL"
	ChannelPhone NotificationChannel = "PHONE"
)

// CustomerTier enumerates service tiers used for notification routing.
type CustomerTier string

const (
	TierVIP      CustomerTier = "VIP"
	TierBusiness CustomerTier = "BUSINESS"
	TierStandard CustomerTier = "STANDARD"
)

// NotificationRecord is the communication produced for a payment whose
// triage outcome requires customer contact.
type NotificationRecord struct {
	PaymentID         string
	CustomerRef       string
	Channel           NotificationChannel
	Tier              CustomerTier
	Message           string
	FollowUpScheduled bool
}
