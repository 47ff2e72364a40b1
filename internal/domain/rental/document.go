package rental

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentType identifies the kind of file attached to a rental.
type DocumentType string

const (
	DocumentBookingSlip DocumentType = "BOOKING_SLIP"
	DocumentReceipt     DocumentType = "RECEIPT"
	DocumentInvoice     DocumentType = "INVOICE"
	DocumentSOP         DocumentType = "SOP"
)

// IsValid returns true if the document type is recognized.
func (d DocumentType) IsValid() bool {
	switch d {
	case DocumentBookingSlip, DocumentReceipt, DocumentInvoice, DocumentSOP:
		return true
	}
	return false
}

// IsGenerated returns true for document types produced by the template
// engine. The SOP is a static upload and is never generated.
func (d DocumentType) IsGenerated() bool {
	switch d {
	case DocumentBookingSlip, DocumentReceipt, DocumentInvoice:
		return true
	}
	return false
}

// NumberPrefix returns the document-number prefix for a generated type.
// "SR" doubles as the contract series marker on booking slips.
func (d DocumentType) NumberPrefix() (string, error) {
	switch d {
	case DocumentBookingSlip:
		return "SR", nil
	case DocumentReceipt:
		return "RCP", nil
	case DocumentInvoice:
		return "INV", nil
	default:
		return "", fmt.Errorf("document type %s has no number prefix", d)
	}
}

// TemplateName returns the template key for a generated type.
func (d DocumentType) TemplateName() (string, error) {
	switch d {
	case DocumentBookingSlip:
		return "booking-slip", nil
	case DocumentReceipt:
		return "receipt", nil
	case DocumentInvoice:
		return "invoice", nil
	default:
		return "", fmt.Errorf("document type %s has no template", d)
	}
}

// ParseDocumentType converts a string to a DocumentType, returning an error if invalid.
func ParseDocumentType(s string) (DocumentType, error) {
	dt := DocumentType(s)
	if !dt.IsValid() {
		return "", fmt.Errorf("invalid document type: %s", s)
	}
	return dt, nil
}

// Document is a value object describing one file attached to a rental. The
// document list on a rental is append-only; a rental may carry several
// documents of the same type.
type Document struct {
	ID         uuid.UUID    `json:"id"`
	Type       DocumentType `json:"type"`
	FileName   string       `json:"file_name"`
	FileURL    string       `json:"file_url"`
	UploadedAt time.Time    `json:"uploaded_at"`
}
