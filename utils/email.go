package utils

import (
	"fmt"
	"log"
	"os"

	"github.com/keighl/postmark"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
}

// NewEmailService initializes a new EmailService. Returns nil when no
// POSTMARK_API_TOKEN is configured; callers must treat a nil service as
// "email disabled".
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		log.Println("POSTMARK_API_TOKEN not set. Email notifications disabled.")
		return nil
	}
	client := postmark.NewClient(apiToken, "")
	return &EmailService{
		client: client,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if es == nil {
		return nil
	}
	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendOrderConfirmationEmail sends an order confirmation to the customer.
func (es *EmailService) SendOrderConfirmationEmail(toEmail, customerName, orderID, batch string, totalPrice float64) error {
	subject := "Order Confirmation"
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Your order <strong>%s</strong> has been placed and will go out with the <strong>%s</strong> delivery batch.<br><br>Total: <strong>%.2f</strong><br><br>Thank you for shopping with us!",
		customerName,
		orderID,
		batch,
		totalPrice,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}
