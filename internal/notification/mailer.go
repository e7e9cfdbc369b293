package notification

import (
	"context"
	"fmt"
	"log"

	mail "github.com/wneessen/go-mail"

	"storage-reservation-backend/config"
)

// Message is one outbound email.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Sender defines the interface for delivering a message.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender delivers messages over SMTP using go-mail.
type SMTPSender struct {
	cfg config.MailerConfig
}

// NewSMTPSender creates a sender from the mailer configuration.
func NewSMTPSender(cfg config.MailerConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send delivers one message to all recipients.
func (s *SMTPSender) Send(msg Message) error {
	if len(msg.To) == 0 {
		return nil
	}

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	m := mail.NewMsg()
	if err := m.FromFormat(s.cfg.DisplayName, s.cfg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.To...); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	if err := client.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// LogSender logs messages instead of delivering them. Used when the
// mailer is disabled in configuration.
type LogSender struct{}

// Send logs the message summary.
func (LogSender) Send(msg Message) error {
	log.Printf("mailer disabled; would send %q to %v", msg.Subject, msg.To)
	return nil
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size   int
	jobs   chan Message
	sender Sender
}

// NewWorkerPool creates a new worker pool around the given sender.
func NewWorkerPool(size int, sender Sender) *WorkerPool {
	return &WorkerPool{
		size:   size,
		jobs:   make(chan Message, size), // Buffered channel
		sender: sender,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Mail worker %d started", id)
	for {
		select {
		case msg := <-wp.jobs:
			if err := wp.sender.Send(msg); err != nil {
				log.Printf("Mail worker %d: error sending %q: %v", id, msg.Subject, err)
			}
		case <-ctx.Done():
			log.Printf("Mail worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a message for background delivery; failures are
// logged inside the pool.
func (wp *WorkerPool) Dispatch(msg Message) {
	wp.jobs <- msg
}

// SendNow delivers a message synchronously so the caller can report a
// delivery failure. Used for the fulfillment ready-notice, whose
// failure must be surfaced without undoing the fulfillment.
func (wp *WorkerPool) SendNow(msg Message) error {
	return wp.sender.Send(msg)
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Message {
	return wp.jobs
}
