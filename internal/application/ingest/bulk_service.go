package ingest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	appartner "github.com/opencrm/backend/internal/application/partner"
	"github.com/opencrm/backend/internal/domain/partner"
	"github.com/opencrm/backend/internal/domain/shared"
)

// Options tunes a BulkCustomerService
type Options struct {
	// MaxBatchSize is the largest batch accepted in one call
	MaxBatchSize int
	// MaxErrors caps how many RecordErrors are collected per call
	MaxErrors int
}

func (o Options) withDefaults() Options {
	if o.MaxBatchSize <= 0 {
		o.MaxBatchSize = 1000
	}
	if o.MaxErrors <= 0 {
		o.MaxErrors = 1000
	}
	return o
}

// BulkCustomerService ingests batches of customer candidates. Each
// candidate is validated and persisted independently, but all writes of
// one call share a single transaction: a store fault reverts the whole
// batch, while per-candidate rejections are collected and never abort.
type BulkCustomerService struct {
	customerRepo partner.CustomerRepository
	txManager    shared.TransactionManager
	eventBus     shared.EventBus
	opts         Options
	logger       *zap.Logger
}

// NewBulkCustomerService creates a new BulkCustomerService
func NewBulkCustomerService(
	customerRepo partner.CustomerRepository,
	txManager shared.TransactionManager,
	eventBus shared.EventBus,
	opts Options,
	logger *zap.Logger,
) *BulkCustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulkCustomerService{
		customerRepo: customerRepo,
		txManager:    txManager,
		eventBus:     eventBus,
		opts:         opts.withDefaults(),
		logger:       logger,
	}
}

// Ingest processes the candidates in submission order and returns the
// created customers plus one RecordError per rejected candidate.
// Successes and rejections always add up to the batch size.
func (s *BulkCustomerService) Ingest(ctx context.Context, candidates []CustomerCandidate) (*BulkIngestResult, error) {
	if len(candidates) == 0 {
		errs := NewErrorCollection(s.opts.MaxErrors)
		errs.Add(NewRecordError(-1, "", ErrCodeIngestEmptyBatch, "No customers provided"))
		return s.buildResult(nil, errs), nil
	}
	if len(candidates) > s.opts.MaxBatchSize {
		return nil, shared.NewValidationError(
			fmt.Sprintf("Batch size %d exceeds the maximum of %d", len(candidates), s.opts.MaxBatchSize))
	}

	var (
		created []*partner.Customer
		errs    = NewErrorCollection(s.opts.MaxErrors)
	)

	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		taken, err := s.existingEmails(txCtx, candidates)
		if err != nil {
			return err
		}

		for i, candidate := range candidates {
			email := partner.NormalizeEmail(candidate.Email)

			if email != "" && taken[email] {
				errs.AddDuplicate(i, email)
				continue
			}

			customer, err := partner.NewCustomer(candidate.Name, candidate.Email, candidate.Phone)
			if err != nil {
				errs.AddCreateFailure(i, email, err)
				continue
			}

			if err := s.customerRepo.Save(txCtx, customer); err != nil {
				// a failing insert is a store fault, not a candidate
				// problem: revert everything
				return err
			}

			taken[customer.Email] = true
			created = append(created, customer)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("bulk customer ingestion aborted",
			zap.Int("batch_size", len(candidates)),
			zap.Error(err))
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, shared.ErrStoreFault
	}

	s.publishEvents(ctx, created)

	s.logger.Info("bulk customer ingestion finished",
		zap.Int("batch_size", len(candidates)),
		zap.Int("created", len(created)),
		zap.Int("rejected", errs.TotalCount()))

	return s.buildResult(created, errs), nil
}

// existingEmails returns the normalized batch emails already present in
// the store. The set is extended as candidates are accepted, so later
// duplicates within the batch fail the same way stored ones do.
func (s *BulkCustomerService) existingEmails(ctx context.Context, candidates []CustomerCandidate) (map[string]bool, error) {
	emails := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		email := partner.NormalizeEmail(candidate.Email)
		if email != "" && !seen[email] {
			seen[email] = true
			emails = append(emails, email)
		}
	}

	taken := make(map[string]bool, len(emails))
	if len(emails) == 0 {
		return taken, nil
	}
	existing, err := s.customerRepo.FindExistingEmails(ctx, emails)
	if err != nil {
		return nil, err
	}
	for _, email := range existing {
		taken[email] = true
	}
	return taken, nil
}

func (s *BulkCustomerService) buildResult(created []*partner.Customer, errs *ErrorCollection) *BulkIngestResult {
	successes := make([]appartner.CustomerResponse, len(created))
	for i, customer := range created {
		successes[i] = appartner.ToCustomerResponse(customer)
	}
	return &BulkIngestResult{
		Successes:   successes,
		Errors:      errs.Errors(),
		TotalErrors: errs.TotalCount(),
		Truncated:   errs.IsTruncated(),
	}
}

func (s *BulkCustomerService) publishEvents(ctx context.Context, created []*partner.Customer) {
	if s.eventBus == nil {
		return
	}
	for _, customer := range created {
		_ = s.eventBus.Publish(ctx, customer.GetDomainEvents()...)
		customer.ClearDomainEvents()
	}
}
