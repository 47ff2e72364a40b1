package application

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/antarakost/service-rental/internal/document"
	"github.com/antarakost/service-rental/internal/domain/rental"
	"github.com/antarakost/service-rental/internal/domain/shared"
	"github.com/antarakost/service-rental/internal/events"
	"github.com/antarakost/service-rental/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "02-01-2006"

// DocumentService orchestrates document generation: validate, derive
// display values, number, render, upload, record. Each document runs its
// own bounded pipeline; sibling documents in a batch never block each other.
type DocumentService struct {
	repo      rental.Repository
	templates document.TemplateSource
	engine    *document.Engine
	numbering *document.NumberingService
	files     storage.FileStore
	producer  *events.Producer
	clock     document.Clock
	timeout   time.Duration
	logger    *zap.Logger
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(
	repo rental.Repository,
	templates document.TemplateSource,
	engine *document.Engine,
	numbering *document.NumberingService,
	files storage.FileStore,
	producer *events.Producer,
	clock document.Clock,
	timeout time.Duration,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		repo:      repo,
		templates: templates,
		engine:    engine,
		numbering: numbering,
		files:     files,
		producer:  producer,
		clock:     clock,
		timeout:   timeout,
		logger:    logger,
	}
}

// GenerateDocument produces a single document for the rental. The rental
// must pass the document-generation validation profile.
func (s *DocumentService) GenerateDocument(ctx context.Context, rentalID uuid.UUID, docType rental.DocumentType) (*rental.Document, error) {
	if !docType.IsGenerated() {
		return nil, shared.NewValidationError(fmt.Sprintf("document type %s cannot be generated", docType))
	}

	r, err := s.repo.FindByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if result := r.ValidateForDocuments(); !result.Valid {
		return nil, shared.NewMissingFieldsError(result.MissingFields)
	}

	doc, err := s.pipeline(ctx, r, docType)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// GeneratedDocuments holds the per-type outcome of a generate-all request.
type GeneratedDocuments struct {
	Slip    *rental.Document `json:"slip,omitempty"`
	Receipt *rental.Document `json:"receipt,omitempty"`
	Invoice *rental.Document `json:"invoice,omitempty"`
}

// GenerateAllResult reports a generate-all request. Partial success is
// representable: a failed document leaves its slot empty and adds an entry
// to Errors while the other documents are still returned.
type GenerateAllResult struct {
	Success   bool               `json:"success"`
	Documents GeneratedDocuments `json:"documents"`
	Errors    []string           `json:"errors,omitempty"`
}

// GenerateAllDocuments produces the booking slip, receipt and invoice in
// one request. Validation runs once; the three pipelines then run
// concurrently and settle independently, so one failed upload does not roll
// back or block its siblings.
func (s *DocumentService) GenerateAllDocuments(ctx context.Context, rentalID uuid.UUID) (*GenerateAllResult, error) {
	r, err := s.repo.FindByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if result := r.ValidateForDocuments(); !result.Valid {
		return nil, shared.NewMissingFieldsError(result.MissingFields)
	}

	types := []rental.DocumentType{
		rental.DocumentBookingSlip,
		rental.DocumentReceipt,
		rental.DocumentInvoice,
	}

	type settled struct {
		docType rental.DocumentType
		doc     *rental.Document
		err     error
	}

	results := make([]settled, len(types))
	var wg sync.WaitGroup
	for i, docType := range types {
		wg.Add(1)
		go func(i int, docType rental.DocumentType) {
			defer wg.Done()
			doc, err := s.pipeline(ctx, r, docType)
			results[i] = settled{docType: docType, doc: doc, err: err}
		}(i, docType)
	}
	wg.Wait()

	out := &GenerateAllResult{Success: true}
	for _, res := range results {
		if res.err != nil {
			out.Success = false
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", res.docType, res.err))
			continue
		}
		switch res.docType {
		case rental.DocumentBookingSlip:
			out.Documents.Slip = res.doc
		case rental.DocumentReceipt:
			out.Documents.Receipt = res.doc
		case rental.DocumentInvoice:
			out.Documents.Invoice = res.doc
		}
	}
	return out, nil
}

// AttachSOP stores a staff-uploaded SOP file and records it against the
// rental. SOPs are static uploads; no validation profile or template is
// involved.
func (s *DocumentService) AttachSOP(ctx context.Context, rentalID uuid.UUID, data []byte, originalName string) (*rental.Document, error) {
	if len(data) == 0 {
		return nil, shared.NewValidationError("uploaded file is empty")
	}

	r, err := s.repo.FindByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	fileName := fmt.Sprintf("%s_%s", uuid.New().String()[:8], originalName)
	url, err := s.files.Upload(ctx, data, fileName)
	if err != nil {
		return nil, err
	}

	doc := rental.Document{
		ID:         uuid.New(),
		Type:       rental.DocumentSOP,
		FileName:   fileName,
		FileURL:    url,
		UploadedAt: s.clock.Now(),
	}
	if err := s.repo.AppendDocument(ctx, r.ID(), doc); err != nil {
		return nil, fmt.Errorf("failed to record document: %w", err)
	}
	return &doc, nil
}

// pipeline runs one document's load, render, upload and record steps,
// sequentially within the document and bounded by the configured timeout.
func (s *DocumentService) pipeline(ctx context.Context, r *rental.Rental, docType rental.DocumentType) (*rental.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	templateName, err := docType.TemplateName()
	if err != nil {
		return nil, err
	}

	template, err := s.templates.Load(ctx, templateName)
	if err != nil {
		return nil, err
	}

	number, err := s.numbering.Next(r.ID(), docType)
	if err != nil {
		return nil, err
	}

	rendered, err := s.engine.Render(template, s.templateData(r, docType, number))
	if err != nil {
		return nil, err
	}

	fileName := number + ".docx"
	url, err := s.files.Upload(ctx, rendered, fileName)
	if err != nil {
		return nil, err
	}

	doc := rental.Document{
		ID:         uuid.New(),
		Type:       docType,
		FileName:   fileName,
		FileURL:    url,
		UploadedAt: s.clock.Now(),
	}
	if err := s.repo.AppendDocument(ctx, r.ID(), doc); err != nil {
		return nil, fmt.Errorf("failed to record document: %w", err)
	}

	s.publishDocumentGenerated(ctx, r, doc)
	return &doc, nil
}

// templateData builds the flat substitution map for a document. Keys must
// cover every token in the corresponding template.
func (s *DocumentService) templateData(r *rental.Rental, docType rental.DocumentType, number string) map[string]string {
	paymentStatus, remaining := rental.ResolvePayment(r.Pricing().Amount, r.Pricing().PaidAmount)

	data := map[string]string{
		"documentNumber":   number,
		"roomNumber":       r.Room().Number,
		"roomType":         r.Room().Type,
		"tenantName":       r.Contact().Name,
		"tenantPhone":      r.Contact().Phone,
		"tenantEmail":      r.Contact().Email,
		"startDate":        r.Period().StartDate.Format(dateLayout),
		"endDate":          r.Period().EndDate.Format(dateLayout),
		"durationType":     string(r.Period().DurationType),
		"currency":         r.Pricing().Currency,
		"amount":           formatAmount(r.Pricing().Amount),
		"paidAmount":       formatAmount(r.Pricing().PaidAmount),
		"remainingBalance": formatAmount(remaining),
		"paymentStatus":    string(paymentStatus),
		"issuedDate":       s.clock.Now().Format(dateLayout),
		"notes":            r.Notes(),
	}

	// The booking slip carries the contract series metadata derived from
	// the rental start date.
	if docType == rental.DocumentBookingSlip {
		meta := document.ContractMetaFor(r.Period().StartDate)
		data["contractMonth"] = meta.MonthRoman
		data["contractYear"] = meta.Year
	}

	return data
}

// formatAmount renders a rupiah amount with dot thousand separators.
func formatAmount(amount int64) string {
	raw := strconv.FormatInt(amount, 10)
	if amount < 0 {
		raw = raw[1:]
	}

	var out []byte
	for i, digit := range []byte(raw) {
		if i > 0 && (len(raw)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, digit)
	}
	if amount < 0 {
		return "-" + string(out)
	}
	return string(out)
}

func (s *DocumentService) publishDocumentGenerated(ctx context.Context, r *rental.Rental, doc rental.Document) {
	if s.producer == nil {
		return
	}

	evt := events.DocumentGeneratedEvent{
		RentalID:     r.ID(),
		DocumentType: string(doc.Type),
		FileName:     doc.FileName,
		FileURL:      doc.FileURL,
		OccurredAt:   time.Now().UTC(),
	}
	envelope, err := events.NewEnvelope("service-rental", events.RentalDocumentGenerated, evt)
	if err != nil {
		s.logger.Error("failed to create event envelope",
			zap.String("event_type", events.RentalDocumentGenerated),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.Publish(ctx, events.TopicRentalEvents, r.ID().String(), envelope); err != nil {
		s.logger.Error("failed to publish document event",
			zap.String("rental_id", r.ID().String()),
			zap.String("document_type", string(doc.Type)),
			zap.Error(err),
		)
	}
}
