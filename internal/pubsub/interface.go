package pubsub

// PubSubClient publishes run events for downstream consumers such as the
// league mailer.
type PubSubClient interface {
	SendMessage(topic string, data any) error
	ProcessMessage(data []byte, returnValue any) error
	Close() error
}
