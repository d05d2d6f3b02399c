package enquiry

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"dp-catalog/internal/model"
)

// ErrUnknownVariant is returned by Decode when the body matches neither the
// contact form nor the product enquiry shape.
var ErrUnknownVariant = errors.New("enquiry: invalid form data")

const (
	msgContactRequired = "All fields are required"
	msgProductRequired = "Email, mobile, requirements, and product name are required"
	msgInvalidEmail    = "Please enter a valid email address."
)

// emailShape is the basic local@domain.tld check used by the storefront forms.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// go-playground/validator/v10: Struct validator for enquiry request tags.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// The stock "email" rule is RFC-strict; the forms only promise the basic shape.
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	return v
}

// Request is one of the two accepted /api/contact bodies. Exactly one of
// Contact and Product is set, matching Type.
type Request struct {
	Type    model.EnquiryType
	Contact *model.ContactRequest
	Product *model.ProductEnquiryRequest
}

// NewContact wraps a contact form as a Request.
func NewContact(c model.ContactRequest) Request {
	return Request{Type: model.EnquiryContact, Contact: &c}
}

// NewProductEnquiry wraps a product enquiry as a Request.
func NewProductEnquiry(p model.ProductEnquiryRequest) Request {
	return Request{Type: model.EnquiryProduct, Product: &p}
}

// Decode parses a JSON body into a Request. The variant comes from the
// optional enquiryType field and otherwise from which fields are present.
func Decode(data []byte) (Request, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return Request{}, ErrUnknownVariant
	}

	switch variantOf(fields) {
	case model.EnquiryContact:
		var c model.ContactRequest
		if err := json.Unmarshal(data, &c); err != nil {
			return Request{}, ErrUnknownVariant
		}
		trim(&c.Name, &c.Email, &c.Mobile, &c.Subject, &c.Message)
		return NewContact(c), nil
	case model.EnquiryProduct:
		var p model.ProductEnquiryRequest
		if err := json.Unmarshal(data, &p); err != nil {
			return Request{}, ErrUnknownVariant
		}
		trim(&p.Email, &p.Mobile, &p.Company, &p.Quantity, &p.Requirements, &p.ProductName)
		return NewProductEnquiry(p), nil
	default:
		return Request{}, ErrUnknownVariant
	}
}

func variantOf(fields map[string]json.RawMessage) model.EnquiryType {
	if raw, ok := fields["enquiryType"]; ok {
		var tag string
		if json.Unmarshal(raw, &tag) == nil {
			// Product pages send "Product Enquiry".
			switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(tag)), " ", "-") {
			case string(model.EnquiryContact):
				return model.EnquiryContact
			case string(model.EnquiryProduct):
				return model.EnquiryProduct
			}
		}
	}

	_, hasName := fields["name"]
	_, hasSubject := fields["subject"]
	_, hasMessage := fields["message"]
	if hasName && hasSubject && hasMessage {
		return model.EnquiryContact
	}
	if _, ok := fields["productName"]; ok {
		return model.EnquiryProduct
	}
	return ""
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// Validate checks mandatory fields and the email shape. It never touches the
// network.
func Validate(req Request) error {
	var (
		target      any
		requiredMsg string
	)
	switch {
	case req.Type == model.EnquiryContact && req.Contact != nil:
		target, requiredMsg = req.Contact, msgContactRequired
	case req.Type == model.EnquiryProduct && req.Product != nil:
		target, requiredMsg = req.Product, msgProductRequired
	default:
		return ErrUnknownVariant
	}

	err := validate.Struct(target)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	// Missing fields take precedence over a malformed email.
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return &ValidationError{Field: fe.Field(), Message: requiredMsg}
		}
	}
	fe := verrs[0]
	if fe.Tag() == "emailshape" {
		return &ValidationError{Field: fe.Field(), Message: msgInvalidEmail}
	}
	return &ValidationError{Field: fe.Field(), Message: requiredMsg}
}

// Payload normalises either variant into the fields the templates use.
func (r Request) Payload() model.EnquiryPayload {
	switch {
	case r.Contact != nil:
		c := r.Contact
		return model.EnquiryPayload{
			Type:         model.EnquiryContact,
			Name:         c.Name,
			Email:        c.Email,
			Mobile:       c.Mobile,
			Subject:      c.Subject,
			Requirements: c.Message,
		}
	case r.Product != nil:
		p := r.Product
		return model.EnquiryPayload{
			Type:         model.EnquiryProduct,
			Email:        p.Email,
			Mobile:       p.Mobile,
			Company:      p.Company,
			Quantity:     p.Quantity,
			Subject:      "Product Enquiry: " + p.ProductName,
			Requirements: p.Requirements,
			ProductName:  p.ProductName,
		}
	}
	return model.EnquiryPayload{}
}

// FromPayload rebuilds the request a payload was produced from, so a stored
// enquiry can be submitted again.
func FromPayload(p model.EnquiryPayload) (Request, error) {
	switch p.Type {
	case model.EnquiryContact:
		return NewContact(model.ContactRequest{
			Name:    p.Name,
			Email:   p.Email,
			Mobile:  p.Mobile,
			Subject: p.Subject,
			Message: p.Requirements,
		}), nil
	case model.EnquiryProduct:
		return NewProductEnquiry(model.ProductEnquiryRequest{
			Email:        p.Email,
			Mobile:       p.Mobile,
			Company:      p.Company,
			Quantity:     p.Quantity,
			Requirements: p.Requirements,
			ProductName:  p.ProductName,
		}), nil
	}
	return Request{}, fmt.Errorf("%w: %q", ErrUnknownVariant, p.Type)
}
