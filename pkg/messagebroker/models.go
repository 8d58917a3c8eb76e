package messagebroker

import "fmt"

// SendMessageToTopicRequest ...
type SendMessageToTopicRequest struct {
	Topic   string
	Message []byte
	// Attributes are sent as kafka headers
	Attributes []map[string][]byte
}

// SendMessageToTopicResponse ...
type SendMessageToTopicResponse struct {
	MessageID string
}

// DeliveryError is an asynchronous delivery failure reported by the client
type DeliveryError struct {
	MessageID string
	Topic     string
	Err       error
}

// Error ...
func (d DeliveryError) Error() string {
	return fmt.Sprintf("delivery of message [%v] to topic [%v] failed: %v", d.MessageID, d.Topic, d.Err)
}

// Unwrap ...
func (d DeliveryError) Unwrap() error {
	return d.Err
}
