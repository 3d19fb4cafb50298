package notify

import (
	"html/template"

	"github.com/kvbuilders/site/internal/model"
)

// CustomerSubject is the subject line of the customer confirmation.
const CustomerSubject = "Thank You for Your Inquiry - KV Builders"

// OwnerSubject is the subject line of the owner notification.
func OwnerSubject(inq model.Inquiry) string {
	return "New Inquiry from " + inq.Name + " - " + inq.Service
}

type ownerData struct {
	model.Inquiry
	PhoneDisplay string
	Received     string
}

func newOwnerData(inq model.Inquiry) ownerData {
	phone := inq.Phone
	if phone == "" {
		phone = "Not provided"
	}
	return ownerData{
		Inquiry:      inq,
		PhoneDisplay: phone,
		Received:     inq.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC"),
	}
}

var ownerTmpl = template.Must(template.New("owner").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <h1 style="color: #2C5F4E;">New Inquiry Received!</h1>
  <p>You have received a new inquiry from your website:</p>
  <p><strong>Name:</strong> {{.Name}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Phone:</strong> {{.PhoneDisplay}}</p>
  <p><strong>Service:</strong> {{.Service}}</p>
  <p><strong>Message:</strong></p>
  <div style="background: #f9f9f9; padding: 15px;">{{.Message}}</div>
  <p><strong>Received:</strong> {{.Received}}</p>
  <p style="color: #888; font-size: 12px;">This is an automated message from KV Builders website.</p>
</body>
</html>`))

var customerTmpl = template.Must(template.New("customer").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <h2 style="color: #2C5F4E;">Thank You for Contacting Us!</h2>
  <p>Dear {{.Name}},</p>
  <p>Thank you for your interest in KV Builders. We have received your inquiry about {{.Service}} and our team will review it shortly.</p>
  <p>We typically respond to inquiries within 24 hours during business days.</p>
  <p style="color: #2C5F4E; font-weight: bold;">Best regards,<br>KV Builders Team</p>
  <p style="color: #888; font-size: 12px;">This is an automated confirmation message. Please do not reply to this email.</p>
</body>
</html>`))
