package domain

// Customer holds the lookup attributes that drive compliance scoring and
// notification routing.
type Customer struct {
	Ref              string
	Tier             CustomerTier
	CrossBorder      bool
	PreferredChannel NotificationChannel
}
