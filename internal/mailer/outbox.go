package mailer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/itssafa/immoplatform/internal/models"
	"gorm.io/gorm"
)

const (
	outboxCapacity = 256
	maxAttempts    = 3
	sendTimeout    = 15 * time.Second
)

// Outbox decouples non-critical email sends from the request path.
// Messages are retried with backoff; exhausted messages go to the
// email_dead_letters table so failures stay observable.
type Outbox struct {
	mailer Mailer
	db     *gorm.DB
	ch     chan Email
	wg     sync.WaitGroup
	once   sync.Once
}

func NewOutbox(m Mailer, db *gorm.DB) *Outbox {
	o := &Outbox{
		mailer: m,
		db:     db,
		ch:     make(chan Email, outboxCapacity),
	}
	o.wg.Add(1)
	go o.worker()
	return o
}

// Enqueue never blocks the caller. A full queue sends the message straight
// to the dead-letter table.
func (o *Outbox) Enqueue(email Email) {
	select {
	case o.ch <- email:
	default:
		slog.Error("email outbox full, dead-lettering", "to", email.To, "subject", email.Subject)
		o.deadLetter(email, "outbox full", 0)
	}
}

// Stop drains the queue and waits for the worker to finish.
func (o *Outbox) Stop() {
	o.once.Do(func() { close(o.ch) })
	o.wg.Wait()
}

func (o *Outbox) worker() {
	defer o.wg.Done()
	for email := range o.ch {
		o.deliver(email)
	}
}

func (o *Outbox) deliver(email Email) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		lastErr = o.mailer.Send(ctx, email)
		cancel()
		if lastErr == nil {
			return
		}
		slog.Warn("email send failed", "to", email.To, "attempt", attempt, "error", lastErr)
		if attempt < maxAttempts {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}

	slog.Error("email delivery exhausted retries", "to", email.To, "subject", email.Subject, "error", lastErr)
	o.deadLetter(email, lastErr.Error(), maxAttempts)
}

func (o *Outbox) deadLetter(email Email, reason string, attempts int) {
	if o.db == nil {
		return
	}
	entry := models.EmailDeadLetter{
		Recipient: email.To,
		Subject:   email.Subject,
		Body:      email.Body,
		LastError: reason,
		Attempts:  attempts,
	}
	if err := o.db.Create(&entry).Error; err != nil {
		slog.Error("failed to record email dead letter", "to", email.To, "error", err)
	}
}
