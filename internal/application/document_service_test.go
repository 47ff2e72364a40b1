package application

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/antarakost/service-rental/internal/document"
	"github.com/antarakost/service-rental/internal/domain/rental"
	"github.com/antarakost/service-rental/internal/domain/shared"
	"github.com/antarakost/service-rental/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedTestClock struct{ at time.Time }

func (c fixedTestClock) Now() time.Time { return c.at }

// fakeTemplateSource serves in-memory template archives by name.
type fakeTemplateSource struct {
	templates map[string][]byte
}

func (f *fakeTemplateSource) Load(_ context.Context, name string) ([]byte, error) {
	data, ok := f.templates[name]
	if !ok {
		return nil, &document.TemplateMissingError{Name: name}
	}
	return data, nil
}

// fakeFileStore records uploads and can be told to fail files matching a
// name prefix, to exercise partial batch outcomes.
type fakeFileStore struct {
	mu         sync.Mutex
	uploads    map[string][]byte
	failPrefix string
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{uploads: make(map[string][]byte)}
}

func (f *fakeFileStore) Upload(_ context.Context, data []byte, fileName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPrefix != "" && strings.HasPrefix(fileName, f.failPrefix) {
		return "", &storage.UploadError{FileName: fileName, Err: fmt.Errorf("disk full")}
	}
	f.uploads[fileName] = data
	return "/static/documents/" + fileName, nil
}

func makeTemplate(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func allTemplates(t *testing.T) map[string][]byte {
	t.Helper()
	return map[string][]byte{
		"booking-slip": makeTemplate(t, `<w:t>No: {documentNumber} Kontrak: {contractMonth}/{contractYear} Penyewa: {tenantName}</w:t>`),
		"receipt":      makeTemplate(t, `<w:t>No: {documentNumber} Dibayar: {paidAmount} Sisa: {remainingBalance}</w:t>`),
		"invoice":      makeTemplate(t, `<w:t>No: {documentNumber} Total: {amount} Status: {paymentStatus}</w:t>`),
	}
}

func newTestDocumentService(t *testing.T, repo *fakeRentalRepo, files *fakeFileStore, templates map[string][]byte) *DocumentService {
	t.Helper()
	clock := fixedTestClock{at: time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)}
	return NewDocumentService(
		repo,
		&fakeTemplateSource{templates: templates},
		document.NewEngine(),
		document.NewNumberingService(clock),
		files,
		nil,
		clock,
		5*time.Second,
		zap.NewNop(),
	)
}

func seedCompleteRental(t *testing.T, repo *fakeRentalRepo) *rental.Rental {
	t.Helper()
	r, err := rental.NewRental(
		rental.RoomAssignment{Number: "A-12", Type: "Deluxe"},
		rental.ContactInfo{Name: "Budi Santoso", Phone: "+62812345678"},
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		rental.DurationMonthly,
		rental.Pricing{Amount: 1_500_000, PaidAmount: 500_000, Currency: "IDR"},
		"",
	)
	require.NoError(t, err)
	repo.rentals[r.ID()] = r
	return r
}

func TestDocumentService_GenerateDocument(t *testing.T) {
	repo := newFakeRentalRepo()
	files := newFakeFileStore()
	svc := newTestDocumentService(t, repo, files, allTemplates(t))
	r := seedCompleteRental(t, repo)

	doc, err := svc.GenerateDocument(context.Background(), r.ID(), rental.DocumentInvoice)
	require.NoError(t, err)

	wantPrefix := "INV-" + r.ID().String()[:8] + "-"
	assert.True(t, strings.HasPrefix(doc.FileName, wantPrefix), "file name %q should start with %q", doc.FileName, wantPrefix)
	assert.True(t, strings.HasSuffix(doc.FileName, ".docx"))
	assert.Equal(t, rental.DocumentInvoice, doc.Type)
	assert.Equal(t, "/static/documents/"+doc.FileName, doc.FileURL)

	// The rendered archive landed in the store and the record on the rental.
	assert.Contains(t, files.uploads, doc.FileName)
	require.Len(t, repo.rentals[r.ID()].Documents(), 1)
	assert.Equal(t, doc.ID, repo.rentals[r.ID()].Documents()[0].ID)
}

func TestDocumentService_GenerateDocument_RejectsSOP(t *testing.T) {
	repo := newFakeRentalRepo()
	svc := newTestDocumentService(t, repo, newFakeFileStore(), allTemplates(t))
	r := seedCompleteRental(t, repo)

	_, err := svc.GenerateDocument(context.Background(), r.ID(), rental.DocumentSOP)
	require.Error(t, err)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}

func TestDocumentService_GenerateDocument_IncompleteRental(t *testing.T) {
	repo := newFakeRentalRepo()
	files := newFakeFileStore()
	svc := newTestDocumentService(t, repo, files, allTemplates(t))
	r := seedCompleteRental(t, repo)

	empty := ""
	require.NoError(t, r.ApplyEdit(rental.EditPatch{Phone: &empty}))

	_, err := svc.GenerateDocument(context.Background(), r.ID(), rental.DocumentInvoice)
	require.Error(t, err)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
	assert.Contains(t, shared.MissingFieldsOf(err), "Nomor Telepon")
	assert.Empty(t, files.uploads)
}

func TestDocumentService_GenerateDocument_TemplateMissing(t *testing.T) {
	repo := newFakeRentalRepo()
	svc := newTestDocumentService(t, repo, newFakeFileStore(), map[string][]byte{})
	r := seedCompleteRental(t, repo)

	_, err := svc.GenerateDocument(context.Background(), r.ID(), rental.DocumentReceipt)
	require.Error(t, err)

	var tme *document.TemplateMissingError
	require.ErrorAs(t, err, &tme)
	assert.Equal(t, "receipt", tme.Name)
}

func TestDocumentService_GenerateDocument_UnresolvedToken(t *testing.T) {
	repo := newFakeRentalRepo()
	templates := allTemplates(t)
	templates["invoice"] = makeTemplate(t, `<w:t>{documentNumber} {ownerSignature}</w:t>`)
	svc := newTestDocumentService(t, repo, newFakeFileStore(), templates)
	r := seedCompleteRental(t, repo)

	_, err := svc.GenerateDocument(context.Background(), r.ID(), rental.DocumentInvoice)
	require.Error(t, err)

	var re *document.RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, []string{"ownerSignature"}, re.UnresolvedTokens)
}

func TestDocumentService_GenerateAllDocuments(t *testing.T) {
	repo := newFakeRentalRepo()
	files := newFakeFileStore()
	svc := newTestDocumentService(t, repo, files, allTemplates(t))
	r := seedCompleteRental(t, repo)

	result, err := svc.GenerateAllDocuments(context.Background(), r.ID())
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Empty(t, result.Errors)
	require.NotNil(t, result.Documents.Slip)
	require.NotNil(t, result.Documents.Receipt)
	require.NotNil(t, result.Documents.Invoice)

	assert.Len(t, files.uploads, 3)
	assert.Len(t, repo.rentals[r.ID()].Documents(), 3)

	// Each document carries its own number series prefix.
	assert.True(t, strings.HasPrefix(result.Documents.Slip.FileName, "SR-"))
	assert.True(t, strings.HasPrefix(result.Documents.Receipt.FileName, "RCP-"))
	assert.True(t, strings.HasPrefix(result.Documents.Invoice.FileName, "INV-"))
}

func TestDocumentService_GenerateAllDocuments_PartialFailure(t *testing.T) {
	repo := newFakeRentalRepo()
	files := newFakeFileStore()
	files.failPrefix = "RCP-"
	svc := newTestDocumentService(t, repo, files, allTemplates(t))
	r := seedCompleteRental(t, repo)

	result, err := svc.GenerateAllDocuments(context.Background(), r.ID())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.NotNil(t, result.Documents.Slip)
	assert.Nil(t, result.Documents.Receipt)
	assert.NotNil(t, result.Documents.Invoice)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], string(rental.DocumentReceipt))

	// The two successful documents are still recorded.
	assert.Len(t, repo.rentals[r.ID()].Documents(), 2)
}

func TestDocumentService_GenerateAllDocuments_IncompleteRental(t *testing.T) {
	repo := newFakeRentalRepo()
	files := newFakeFileStore()
	svc := newTestDocumentService(t, repo, files, allTemplates(t))
	r := seedCompleteRental(t, repo)

	unassigned := rental.RoomUnassigned
	require.NoError(t, r.ApplyEdit(rental.EditPatch{RoomNumber: &unassigned}))

	_, err := svc.GenerateAllDocuments(context.Background(), r.ID())
	require.Error(t, err)
	assert.Contains(t, shared.MissingFieldsOf(err), "Nomor Kamar")
	assert.Empty(t, files.uploads)
}

func TestDocumentService_AttachSOP(t *testing.T) {
	repo := newFakeRentalRepo()
	files := newFakeFileStore()
	svc := newTestDocumentService(t, repo, files, allTemplates(t))
	r := seedCompleteRental(t, repo)

	doc, err := svc.AttachSOP(context.Background(), r.ID(), []byte("house rules"), "sop-kost.pdf")
	require.NoError(t, err)

	assert.Equal(t, rental.DocumentSOP, doc.Type)
	assert.True(t, strings.HasSuffix(doc.FileName, "_sop-kost.pdf"))
	assert.Contains(t, files.uploads, doc.FileName)
	assert.Len(t, repo.rentals[r.ID()].Documents(), 1)
}

func TestDocumentService_AttachSOP_SkipsValidationProfile(t *testing.T) {
	repo := newFakeRentalRepo()
	svc := newTestDocumentService(t, repo, newFakeFileStore(), allTemplates(t))
	r := seedCompleteRental(t, repo)

	empty := ""
	require.NoError(t, r.ApplyEdit(rental.EditPatch{ContactName: &empty, Phone: &empty}))

	_, err := svc.AttachSOP(context.Background(), r.ID(), []byte("house rules"), "sop.pdf")
	assert.NoError(t, err)
}

func TestDocumentService_AttachSOP_EmptyFile(t *testing.T) {
	repo := newFakeRentalRepo()
	svc := newTestDocumentService(t, repo, newFakeFileStore(), allTemplates(t))
	r := seedCompleteRental(t, repo)

	_, err := svc.AttachSOP(context.Background(), r.ID(), nil, "sop.pdf")
	require.Error(t, err)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}

func TestFormatAmount(t *testing.T) {
	cases := map[int64]string{
		0:          "0",
		950:        "950",
		1_500_000:  "1.500.000",
		25_000:     "25.000",
		-1_000_000: "-1.000.000",
	}
	for amount, want := range cases {
		assert.Equal(t, want, formatAmount(amount), "amount %d", amount)
	}
}
