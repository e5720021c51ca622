package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/ramenshop/backend/internal/application/inventory"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/ramenshop/backend/internal/infrastructure/mail"
	"github.com/ramenshop/backend/internal/infrastructure/scheduler"
	"go.uber.org/zap"
)

// StockStatus reports stock levels and upcoming expiry
type StockStatus interface {
	Status(ctx context.Context, window time.Duration) (*inventory.StatusResponse, error)
}

// StockDigest mails the kitchen a summary of stock that expires soon or
// is below par
type StockDigest struct {
	status     StockStatus
	mailer     mail.Mailer
	renderer   Renderer
	window     time.Duration
	recipients []string
	logger     *zap.Logger
}

// NewStockDigest creates a new StockDigest
func NewStockDigest(status StockStatus, mailer mail.Mailer, renderer Renderer, window time.Duration, recipients []string, logger *zap.Logger) *StockDigest {
	if window <= 0 {
		window = 48 * time.Hour
	}
	return &StockDigest{
		status:     status,
		mailer:     mailer,
		renderer:   renderer,
		window:     window,
		recipients: recipients,
		logger:     logger.Named("stock_digest"),
	}
}

// Task returns the digest as a sweeper task
func (d *StockDigest) Task(every time.Duration) scheduler.Task {
	return scheduler.Task{Name: "stock-digest", Every: every, Run: d.Run}
}

// Run builds the digest and sends it. Nothing is sent when there is
// nothing to report or nobody to tell.
func (d *StockDigest) Run(ctx context.Context) error {
	if len(d.recipients) == 0 {
		return nil
	}
	ctx = shared.WithActor(ctx, shared.ServiceActor())
	status, err := d.status.Status(ctx, d.window)
	if err != nil {
		return fmt.Errorf("stock status: %w", err)
	}

	data := DigestData(status, d.window)
	if data.Empty() {
		d.logger.Debug("Stock digest skipped, nothing to report")
		return nil
	}
	html, err := d.renderer.Render(mail.TemplateStockDigest, data)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Stock digest: %d expiring, %d below par", len(data.Expiring), len(data.BelowPar))
	if err := d.mailer.Send(ctx, mail.Message{To: d.recipients, Subject: subject, HTML: html}); err != nil {
		return fmt.Errorf("send stock digest: %w", err)
	}
	d.logger.Info("Stock digest sent",
		zap.Int("expiring", len(data.Expiring)),
		zap.Int("below_par", len(data.BelowPar)),
		zap.Strings("to", d.recipients))
	return nil
}

// DigestData maps an inventory status report onto the digest template
func DigestData(status *inventory.StatusResponse, window time.Duration) mail.StockDigestData {
	data := mail.StockDigestData{GeneratedAt: status.GeneratedAt, Window: window}
	for _, e := range status.Expiring {
		data.Expiring = append(data.Expiring, mail.ExpiringStock{
			Fridge:    e.FridgeName,
			Item:      e.ItemName,
			Portions:  e.Portions,
			ExpiresAt: e.ExpiresAt,
		})
	}
	for _, b := range status.BelowPar {
		data.BelowPar = append(data.BelowPar, mail.BelowPar{
			Item:         b.Name,
			SKU:          b.SKU,
			OnHandCases:  b.OnHandCases,
			ParCases:     b.ParLevelCases,
			ShortByCases: b.ShortByCases,
		})
	}
	return data
}
