package feed

// First returns the value of the first candidate key that is present on the
// row with a usable scalar value, coerced to a string. Candidates are tried
// in order, most-preferred first; they are the spelling variants the
// different feeds use for the same semantic field.
//
// The boolean distinguishes "absent" from "empty string": update paths must
// skip absent fields rather than null out previously-known values.
func First(row Row, keys ...string) (string, bool) {
	for _, key := range keys {
		v, present := row[key]
		if !present {
			continue
		}
		if s, ok := scalarString(v); ok {
			return s, true
		}
	}
	return "", false
}

// List returns the first candidate key holding a list of nested objects,
// e.g. the embedded payment sub-records on a Dream Drives reservation.
func List(row Row, keys ...string) ([]Row, bool) {
	for _, key := range keys {
		if list, ok := row[key].([]any); ok {
			return listToRows(list), true
		}
	}
	return nil, false
}

// Key synonym sets across the provider schemas. Ordered most-specific
// first; PascalCase spellings come from the Dream Drives API, snake_case
// from VEVS.
var (
	ReferenceKeys = []string{"reference", "Reference", "booking_reference", "BookingReference", "booking_ref", "BookingRef", "ref", "Ref"}
	IDKeys        = []string{"Id", "ID", "id", "booking_id", "BookingId", "reservation_id", "ReservationId"}
	EmailKeys     = []string{"CustomerEmail", "customer_email", "ClientEmail", "client_email", "Email", "email", "contact_email"}
	NameKeys      = []string{"CustomerName", "customer_name", "ClientName", "client_name", "FullName", "full_name", "Name", "name"}
	PhoneKeys     = []string{"CustomerPhone", "customer_phone", "Phone", "phone", "Telephone", "telephone", "Mobile", "mobile"}
	VehicleKeys   = []string{"Vehicle", "vehicle", "VehicleName", "vehicle_name", "CarName", "car_name", "Car", "car", "vehicle_description"}
	StartKeys     = []string{"StartDate", "start_date", "PickupDate", "pickup_date", "DateFrom", "date_from", "start", "from"}
	EndKeys       = []string{"EndDate", "end_date", "ReturnDate", "return_date", "DropoffDate", "dropoff_date", "DateTo", "date_to", "end", "to"}
	TotalKeys     = []string{"Total", "TotalAmount", "total_amount", "total", "GrandTotal", "grand_total"}
	DepositKeys   = []string{"Deposit", "deposit", "DepositAmount", "deposit_amount", "Prepaid", "prepaid"}
	HoldKeys      = []string{"Bond", "bond", "BondAmount", "bond_amount", "Hold", "hold", "HoldAmount", "hold_amount", "SecurityDeposit", "security_deposit"}
	CurrencyKeys  = []string{"Currency", "currency", "CurrencyCode", "currency_code"}
	StatusKeys    = []string{"Status", "status", "BookingStatus", "booking_status", "State", "state"}
	UpdatedKeys   = []string{"UpdatedAt", "updated_at", "LastModified", "last_modified", "Modified", "modified"}
	PaymentsKeys  = []string{"Payments", "payments", "Transactions", "transactions"}

	PaymentIDKeys     = []string{"Id", "ID", "id", "payment_id", "PaymentId", "transaction_id", "TransactionId"}
	AmountKeys        = []string{"Amount", "amount", "Value", "value", "Paid", "paid"}
	PaymentTypeKeys   = []string{"Type", "type", "PaymentType", "payment_type"}
	MethodKeys        = []string{"Method", "method", "PaymentMethod", "payment_method"}
	DescriptionKeys   = []string{"Description", "description", "Note", "note", "Notes", "notes", "Details", "details"}
	PaidAtKeys        = []string{"PaidAt", "paid_at", "Date", "date", "PaymentDate", "payment_date"}
	PaymentStatusKeys = []string{"Status", "status", "PaymentStatus", "payment_status"}
)
