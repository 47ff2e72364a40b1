package rental

import "strings"

// RoomUnassigned is the sentinel a room number holds before staff assign a
// real room. The validation gate treats it the same as an empty value.
const RoomUnassigned = "unset"

// Field identifies a single validated rental field for per-field UI hints.
type Field string

const (
	FieldRoomNumber  Field = "room_number"
	FieldRoomType    Field = "room_type"
	FieldAmount      Field = "amount"
	FieldPaidAmount  Field = "paid_amount"
	FieldContactName Field = "contact_name"
	FieldPhone       Field = "phone"
	FieldStartDate   Field = "start_date"
	FieldEndDate     Field = "end_date"
)

// fieldLabels maps fields to the operator-facing labels used in rejection
// messages. The back office runs in Indonesian.
var fieldLabels = map[Field]string{
	FieldRoomNumber:  "Nomor Kamar",
	FieldRoomType:    "Tipe Kamar",
	FieldAmount:      "Harga Sewa",
	FieldPaidAmount:  "Jumlah Pembayaran",
	FieldContactName: "Nama Penyewa",
	FieldPhone:       "Nomor Telepon",
	FieldStartDate:   "Tanggal Mulai",
	FieldEndDate:     "Tanggal Selesai",
}

// Label returns the operator-facing label for the field.
func (f Field) Label() string {
	if label, ok := fieldLabels[f]; ok {
		return label
	}
	return string(f)
}

// approvalFields are the fields required before a rental can be approved.
var approvalFields = []Field{
	FieldRoomNumber,
	FieldRoomType,
	FieldAmount,
	FieldPaidAmount,
}

// documentFields are the fields required before documents can be generated:
// the approval set plus tenant identity and the rental period.
var documentFields = []Field{
	FieldRoomNumber,
	FieldRoomType,
	FieldAmount,
	FieldPaidAmount,
	FieldContactName,
	FieldPhone,
	FieldStartDate,
	FieldEndDate,
}

// ValidationResult reports the outcome of a validation profile.
type ValidationResult struct {
	Valid         bool
	MissingFields []string
}

// IsFieldMissing reports whether a single field is missing or invalid on the
// rental. Exposed standalone so the UI can show per-field indicators with
// exactly the same predicates the profiles use.
func (r *Rental) IsFieldMissing(field Field) bool {
	switch field {
	case FieldRoomNumber:
		n := strings.TrimSpace(r.room.Number)
		return n == "" || n == RoomUnassigned
	case FieldRoomType:
		return strings.TrimSpace(r.room.Type) == ""
	case FieldAmount:
		return r.pricing.Amount <= 0
	case FieldPaidAmount:
		return r.pricing.PaidAmount <= 0
	case FieldContactName:
		return strings.TrimSpace(r.contact.Name) == ""
	case FieldPhone:
		return strings.TrimSpace(r.contact.Phone) == ""
	case FieldStartDate:
		return r.period.StartDate.IsZero()
	case FieldEndDate:
		return r.period.EndDate.IsZero()
	default:
		return false
	}
}

func (r *Rental) validate(fields []Field) ValidationResult {
	var missing []string
	for _, f := range fields {
		if r.IsFieldMissing(f) {
			missing = append(missing, f.Label())
		}
	}
	return ValidationResult{Valid: len(missing) == 0, MissingFields: missing}
}

// ValidateForApproval runs the approval profile: room assignment, price and
// at least a first payment must be present.
func (r *Rental) ValidateForApproval() ValidationResult {
	return r.validate(approvalFields)
}

// ValidateForDocuments runs the document-generation profile, a superset of
// the approval profile. A legal document must also carry the tenant's name,
// phone number and the rental period.
func (r *Rental) ValidateForDocuments() ValidationResult {
	return r.validate(documentFields)
}
