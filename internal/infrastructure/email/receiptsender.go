// Package email delivers transactional mail over SMTP.
package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"invitio/internal/application/checkout/usecases"
	sharedConfig "invitio/internal/shared/config"
	"invitio/internal/shared/logger"
)

// SMTPReceiptSender sends purchase receipts via SMTP
type SMTPReceiptSender struct {
	config sharedConfig.EmailConfig
	dialer *gomail.Dialer
	logger logger.Interface
}

// NewSMTPReceiptSender creates a receipt sender from email configuration
func NewSMTPReceiptSender(cfg sharedConfig.EmailConfig, log logger.Interface) *SMTPReceiptSender {
	return &SMTPReceiptSender{
		config: cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		logger: log.Named("receipt-sender"),
	}
}

var _ usecases.ReceiptSender = (*SMTPReceiptSender)(nil)

// SendReceipt sends the purchase receipt for a settled payment
func (s *SMTPReceiptSender) SendReceipt(ctx context.Context, to string, receipt usecases.ReceiptData) error {
	amount := fmt.Sprintf("%.2f %s", float64(receipt.AmountMinor)/100, receipt.Currency)

	subject := "Your Invitio purchase receipt"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Thank you for your purchase!</h2>
			<p>Your %s plan (%s) is now active.</p>
			<table>
				<tr><td>Transaction</td><td>%s</td></tr>
				<tr><td>Amount</td><td>%s</td></tr>
			</table>
			<p>You can review your subscription and payment history in your account settings.</p>
		</body>
		</html>
	`, receipt.Tier, receipt.Period, receipt.TransactionID, amount)

	plainBody := fmt.Sprintf(`
Thank you for your purchase!

Your %s plan (%s) is now active.

Transaction: %s
Amount: %s

You can review your subscription and payment history in your account settings.
	`, receipt.Tier, receipt.Period, receipt.TransactionID, amount)

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.config.FromAddress, s.config.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	sendErr := make(chan error, 1)
	go func() {
		sendErr <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-sendErr:
		if err != nil {
			return fmt.Errorf("failed to send receipt: %w", err)
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	s.logger.Infow("receipt sent", "transaction_id", receipt.TransactionID)
	return nil
}
