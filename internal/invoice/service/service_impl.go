package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/jadeswanstrom/ioweyou/internal/auth/domain"
	"github.com/jadeswanstrom/ioweyou/internal/clock"
	"github.com/jadeswanstrom/ioweyou/internal/config"
	"github.com/jadeswanstrom/ioweyou/internal/events"
	"github.com/jadeswanstrom/ioweyou/internal/invoice/domain"
	"github.com/jadeswanstrom/ioweyou/internal/payout"
	"github.com/jadeswanstrom/ioweyou/internal/token"
	"github.com/jadeswanstrom/ioweyou/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Cfg      config.Config
	Repo     domain.Repository
	Resolver *payout.Resolver
	Notifier domain.Notifier
	Outbox   *events.Outbox
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	resolver     *payout.Resolver
	notifier     domain.Notifier
	outbox       *events.Outbox
	tokens       *token.Generator
	publicOrigin string
}

func NewService(p Params) domain.Service {
	s := &Service{
		db:           p.DB,
		log:          p.Log.Named("invoice.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		resolver:     p.Resolver,
		notifier:     p.Notifier,
		outbox:       p.Outbox,
		publicOrigin: p.Cfg.Share.PublicOrigin,
	}
	s.tokens = token.NewGenerator(func(ctx context.Context, candidate string) (bool, error) {
		return s.repo.TokenExists(ctx, s.db, candidate)
	})
	return s
}

func (s *Service) Create(ctx context.Context, ownerID snowflake.ID, req domain.CreateRequest) (*domain.Response, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}
	client := strings.TrimSpace(req.Client)
	if client == "" {
		return nil, domain.ErrInvalidClient
	}
	if req.Total == nil {
		return nil, domain.ErrMissingTotal
	}

	status := domain.StatusUnpaid
	if req.Status != "" {
		status = domain.Status(req.Status)
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
	}

	now := s.clock.Now()
	date := now
	if req.Date != nil {
		date = *req.Date
	}

	inv := domain.Invoice{
		ID:              s.genID.Generate(),
		OwnerID:         ownerID,
		Title:           title,
		Client:          client,
		RecipientEmails: strings.TrimSpace(req.RecipientEmails),
		Notes:           strings.TrimSpace(req.Notes),
		Date:            date,
		Total:           *req.Total,
		Status:          status,
		Currency:        payout.DefaultCurrency,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.Receipt != nil {
		inv.Receipt = *req.Receipt
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &inv); err != nil {
			return err
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			OwnerID:   ownerID,
			Type:      events.EventInvoiceCreated,
			Payload:   events.InvoicePayload{InvoiceID: inv.ID.String(), Status: string(inv.Status)}.ToMap(),
			DedupeKey: events.EventInvoiceCreated + ":" + inv.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invoice created",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("status", string(inv.Status)),
	)
	return domain.ToResponse(&inv), nil
}

func (s *Service) List(ctx context.Context, ownerID snowflake.ID, req domain.ListRequest) (domain.ListResponse, error) {
	filter := domain.ListFilter{Limit: req.Limit()}

	offset, err := req.Offset()
	if err != nil {
		return domain.ListResponse{}, err
	}
	filter.Offset = offset

	if req.Status != "" && !strings.EqualFold(req.Status, "All") {
		status := domain.Status(req.Status)
		if !status.Valid() {
			return domain.ListResponse{}, domain.ErrInvalidStatus
		}
		filter.Status = status
	}

	invoices, total, err := s.repo.List(ctx, s.db, ownerID, filter)
	if err != nil {
		return domain.ListResponse{}, err
	}

	resp := domain.ListResponse{
		PageInfo: pagination.PageInfo{
			NextPageToken: pagination.NextToken(offset, len(invoices), total),
			TotalSize:     total,
		},
		Invoices: make([]domain.Response, 0, len(invoices)),
	}
	for i := range invoices {
		resp.Invoices = append(resp.Invoices, *domain.ToResponse(&invoices[i]))
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, ownerID, id snowflake.ID) (*domain.Response, error) {
	inv, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return nil, err
	}
	return domain.ToResponse(inv), nil
}

// SetStatus relabels an invoice. Every valid status is reachable from every
// other, and re-applying the current status is a no-op success.
func (s *Service) SetStatus(ctx context.Context, ownerID, id snowflake.ID, status string) (*domain.Response, error) {
	next := domain.Status(status)
	if !next.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	inv, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == next {
		return domain.ToResponse(inv), nil
	}

	previous := inv.Status
	inv.Status = next
	inv.UpdatedAt = s.clock.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Save(ctx, tx, inv); err != nil {
			return err
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			OwnerID: ownerID,
			Type:    events.EventInvoiceStatusChanged,
			Payload: events.InvoicePayload{InvoiceID: inv.ID.String(), Status: string(next)}.ToMap(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invoice status changed",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(next)),
	)
	return domain.ToResponse(inv), nil
}

// Publish enables public sharing. Repeated publishes return the same token
// and the same payout snapshot.
func (s *Service) Publish(ctx context.Context, ownerID, id snowflake.ID) (*domain.PublishResponse, error) {
	inv, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := s.ensurePublished(ctx, inv); err != nil {
		return nil, err
	}

	tok := inv.Token()
	return &domain.PublishResponse{
		Invoice:    domain.ToResponse(inv),
		ShareToken: tok,
		SharePath:  domain.SharePath(tok),
		ShareURL:   domain.ShareURL(s.publicOrigin, tok),
	}, nil
}

// Send dispatches the invoice to its recipient list, publishing it first
// when needed. Delivery failure is reported but never rolls back the
// publish.
func (s *Service) Send(ctx context.Context, ownerID, id snowflake.ID) (*domain.SendResponse, error) {
	inv, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return nil, err
	}

	recipients := domain.ParseRecipients(inv.RecipientEmails)
	if len(recipients) == 0 {
		return nil, domain.ErrNoRecipients
	}
	if len(recipients) > domain.MaxRecipients {
		return nil, domain.ErrTooManyRecipients
	}

	if err := s.ensurePublished(ctx, inv); err != nil {
		return nil, err
	}

	shareURL := domain.ShareURL(s.publicOrigin, inv.Token())
	notification := domain.Notification{
		Recipients:  recipients,
		Title:       inv.Title,
		Client:      inv.Client,
		Total:       inv.Total,
		Currency:    inv.Currency,
		Status:      inv.Status,
		Date:        inv.Date,
		Notes:       inv.Notes,
		ReceiptURL:  inv.Receipt.URL,
		PayableLink: domain.PayableLink(inv.PayeePayoutBase, inv.Total, inv.Currency),
		ShareURL:    shareURL,
	}

	if err := s.notifier.InvoiceSent(ctx, notification); err != nil {
		s.log.Warn("invoice delivery failed",
			zap.String("invoice_id", inv.ID.String()),
			zap.Int("recipients", len(recipients)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}

	if err := s.outbox.Publish(ctx, events.Event{
		OwnerID: ownerID,
		Type:    events.EventInvoiceSent,
		Payload: events.InvoicePayload{
			InvoiceID: inv.ID.String(),
			Status:    string(inv.Status),
			SentCount: len(recipients),
		}.ToMap(),
	}); err != nil {
		s.log.Warn("invoice sent event not recorded",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err),
		)
	}

	s.log.Info("invoice sent",
		zap.String("invoice_id", inv.ID.String()),
		zap.Int("recipients", len(recipients)),
	)
	return &domain.SendResponse{SentTo: recipients, ShareURL: shareURL}, nil
}

// ensurePublished brings an invoice into the shareable state. The payout
// snapshot is resolved only once, at the first publish; the share token is
// likewise issued once and reused forever after.
func (s *Service) ensurePublished(ctx context.Context, inv *domain.Invoice) error {
	if inv.Published() {
		return nil
	}

	if inv.PayeePayoutBase == "" {
		var owner authdomain.User
		err := s.db.WithContext(ctx).First(&owner, "id = ?", inv.OwnerID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return payout.ErrNotConfigured
			}
			return err
		}
		snapshot, err := s.resolver.Resolve(payout.Settings{
			Handle:   owner.PayoutHandle,
			Currency: owner.Currency,
		})
		if err != nil {
			return err
		}
		inv.PayeePayoutBase = snapshot.Base
		inv.Currency = snapshot.Currency
	}

	inv.ShareEnabled = true
	inv.UpdatedAt = s.clock.Now()

	if inv.Token() != "" {
		if err := s.repo.Save(ctx, s.db, inv); err != nil {
			return err
		}
		return s.publishEvent(ctx, inv)
	}

	_, err := s.tokens.Issue(ctx, func(ctx context.Context, candidate string) error {
		inv.ShareToken = &candidate
		if err := s.repo.ClaimToken(ctx, s.db, inv); err != nil {
			inv.ShareToken = nil
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return token.ErrCollision
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrTokenAlreadyIssued) {
			return s.adoptPublished(ctx, inv)
		}
		return err
	}

	s.log.Info("invoice published", zap.String("invoice_id", inv.ID.String()))
	return s.publishEvent(ctx, inv)
}

// adoptPublished reloads an invoice whose token was written by a concurrent
// publish and carries the stored state forward, so both callers end up
// holding the same token.
func (s *Service) adoptPublished(ctx context.Context, inv *domain.Invoice) error {
	stored, err := s.repo.FindByID(ctx, s.db, inv.OwnerID, inv.ID)
	if err != nil {
		return err
	}
	*inv = *stored
	return s.publishEvent(ctx, inv)
}

func (s *Service) publishEvent(ctx context.Context, inv *domain.Invoice) error {
	err := s.outbox.Publish(ctx, events.Event{
		OwnerID:   inv.OwnerID,
		Type:      events.EventInvoicePublished,
		Payload:   events.InvoicePayload{InvoiceID: inv.ID.String(), Status: string(inv.Status)}.ToMap(),
		DedupeKey: events.EventInvoicePublished + ":" + inv.ID.String(),
	})
	if err != nil {
		s.log.Warn("invoice published event not recorded",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err),
		)
	}
	return nil
}
