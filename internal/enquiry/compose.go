package enquiry

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"dp-catalog/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Brand is the sender identity printed in mails and notifications.
type Brand struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	Since   string `yaml:"since"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
	Hours   string `yaml:"hours"`
}

func DefaultBrand() Brand {
	return Brand{
		Name:    "DP Enterprises",
		Tagline: "Milton Roy Authorized Partner",
		Since:   "Excellence in precision pumping solutions since 2007",
		Phone:   "+91-7000901447",
		Email:   "dpenterprises2007@gmail.com",
		Hours:   "Mon-Sat, 9:00 AM - 6:00 PM",
	}
}

// Message is one outbound mail. The sender address is the relay's concern.
type Message struct {
	To      string
	Subject string
	HTML    string
}

var mailTemplates = map[string]*template.Template{
	"contact_business": mustParse("contact_business"),
	"contact_customer": mustParse("contact_customer"),
	"product_business": mustParse("product_business"),
	"product_customer": mustParse("product_customer"),
}

func mustParse(name string) *template.Template {
	funcs := template.FuncMap{"nl2br": nl2br}
	return template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS,
		"templates/layout.html",
		"templates/contact_info.html",
		"templates/"+name+".html",
	))
}

// nl2br escapes s and turns line breaks into <br>.
func nl2br(s string) template.HTML {
	return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
}

type mailData struct {
	Enquiry   model.EnquiryPayload
	Timestamp string
	Brand     Brand
}

// composeMails renders the business notification and the customer
// acknowledgment for p.
func composeMails(p model.EnquiryPayload, timestamp, businessEmail string, brand Brand) (business, customer Message, err error) {
	data := mailData{Enquiry: p, Timestamp: timestamp, Brand: brand}

	var businessTpl, customerTpl string
	switch p.Type {
	case model.EnquiryContact:
		businessTpl, customerTpl = "contact_business", "contact_customer"
		business.Subject = "🔔 New Contact Form Submission - " + p.Subject
		customer.Subject = fmt.Sprintf("✅ Thank you for contacting %s - We'll be in touch soon!", brand.Name)
	case model.EnquiryProduct:
		businessTpl, customerTpl = "product_business", "product_customer"
		business.Subject = "🛒 New Product Enquiry - " + p.ProductName
		customer.Subject = fmt.Sprintf("✅ Thank you for your enquiry about %s - %s", p.ProductName, brand.Name)
	default:
		return Message{}, Message{}, ErrUnknownVariant
	}

	if business.HTML, err = render(businessTpl, data); err != nil {
		return Message{}, Message{}, err
	}
	if customer.HTML, err = render(customerTpl, data); err != nil {
		return Message{}, Message{}, err
	}
	business.To = businessEmail
	customer.To = p.Email
	return business, customer, nil
}

func render(name string, data mailData) (string, error) {
	var buf bytes.Buffer
	if err := mailTemplates[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// composeNotification builds the chat message posted to the webhook.
func composeNotification(p model.EnquiryPayload, timestamp string, brand Brand) string {
	var b strings.Builder
	switch p.Type {
	case model.EnquiryContact:
		fmt.Fprintf(&b, "🔔 *NEW CONTACT FORM SUBMISSION*\n\n*%s Website Inquiry*\n\n", brand.Name)
		fmt.Fprintf(&b, "👤 *Name:* %s\n", p.Name)
		fmt.Fprintf(&b, "📧 *Email:* %s\n", p.Email)
		fmt.Fprintf(&b, "📱 *Mobile:* %s\n", p.Mobile)
		fmt.Fprintf(&b, "📋 *Subject:* %s\n\n", p.Subject)
		fmt.Fprintf(&b, "💬 *Message:*\n%s\n\n", p.Requirements)
		fmt.Fprintf(&b, "🕐 *Submitted:* %s\n\n---\nReply to this customer promptly! 🚀", timestamp)
	case model.EnquiryProduct:
		fmt.Fprintf(&b, "🛒 *NEW PRODUCT ENQUIRY*\n\n*%s Website*\n\n", brand.Name)
		fmt.Fprintf(&b, "🏷️ *Product:* %s\n", p.ProductName)
		fmt.Fprintf(&b, "📧 *Email:* %s\n", p.Email)
		fmt.Fprintf(&b, "📱 *Mobile:* %s\n", p.Mobile)
		if p.Company != "" {
			fmt.Fprintf(&b, "🏢 *Company:* %s\n", p.Company)
		}
		if p.Quantity != "" {
			fmt.Fprintf(&b, "📦 *Quantity:* %s\n", p.Quantity)
		}
		fmt.Fprintf(&b, "\n📝 *Requirements:*\n%s\n\n", p.Requirements)
		fmt.Fprintf(&b, "🕐 *Submitted:* %s\n\n---\nProduct enquiry - respond within 24 hours! ⚡", timestamp)
	}
	return b.String()
}

// ist is Indian Standard Time; it has no DST so a fixed zone avoids depending
// on the host tz database.
var ist = time.FixedZone("IST", 5*60*60+30*60)

// formatTimestamp renders t the way the business reads it: full date, medium
// time, Indian Standard Time.
func formatTimestamp(t time.Time) string {
	return t.In(ist).Format("Monday, 2 January 2006 at 3:04:05 pm")
}
