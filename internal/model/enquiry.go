package model

// EnquiryType discriminates the two request shapes accepted by /api/contact.
type EnquiryType string

const (
	EnquiryContact EnquiryType = "contact"
	EnquiryProduct EnquiryType = "product-enquiry"
)

// ContactRequest is the generic contact form. Every field is required.
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,emailshape"`
	Mobile  string `json:"mobile" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// ProductEnquiryRequest is sent from a product detail page.
type ProductEnquiryRequest struct {
	Email        string `json:"email" validate:"required,emailshape"`
	Mobile       string `json:"mobile" validate:"required"`
	Company      string `json:"company,omitempty"`
	Quantity     string `json:"quantity,omitempty"`
	Requirements string `json:"requirements" validate:"required"`
	ProductName  string `json:"productName" validate:"required"`
}

// EnquiryPayload is the normalised view of either request variant that the
// mail and notification templates render from.
type EnquiryPayload struct {
	Type         EnquiryType `json:"enquiryType"`
	Name         string      `json:"name,omitempty"`
	Email        string      `json:"email"`
	Mobile       string      `json:"mobile"`
	Company      string      `json:"company,omitempty"`
	Quantity     string      `json:"quantity,omitempty"`
	Subject      string      `json:"subject,omitempty"`
	Requirements string      `json:"requirements"`
	ProductName  string      `json:"productName,omitempty"`
}
