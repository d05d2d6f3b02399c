package model

// EnquirySubmitted is emitted after both enquiry mails were accepted by the
// relay. It is published to Kafka topic enquiry.submitted and consumed by the
// projectors.
type EnquirySubmitted struct {
	EnquiryID   string      `json:"enquiry_id"`
	Type        EnquiryType `json:"type"`
	ProductName string      `json:"product_name,omitempty"`
	Email       string      `json:"email"`
	Timestamp   string      `json:"timestamp"` // RFC3339Nano, UTC
}
