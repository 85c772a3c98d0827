package domain

// SubscriptionKeys содержит ключи шифрования push-подписки браузера.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// Subscription описывает push-получателя в формате PushSubscription.toJSON().
// Идентичность подписки определяется её Endpoint.
type Subscription struct {
	Endpoint       string           `json:"endpoint"`
	ExpirationTime *int64           `json:"expirationTime,omitempty"`
	Keys           SubscriptionKeys `json:"keys"`
}

// Valid сообщает, пригодна ли подписка для регистрации.
func (s Subscription) Valid() bool {
	return s.Endpoint != ""
}
