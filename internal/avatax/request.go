package avatax

// Document types understood by the transactions endpoint. SalesOrder is an
// estimate and leaves no trace in the remote ledger; SalesInvoice is the
// permanent document recorded after payment.
const (
	DocumentTypeSalesOrder   = "SalesOrder"
	DocumentTypeSalesInvoice = "SalesInvoice"
)

// DateFormat is the day-granularity format AvaTax uses for document dates.
const DateFormat = "2006-01-02"

// LineItem is one calculable line of a transaction. Quantity is always 1 in
// this domain; Amount may be zero or negative for discounts.
type LineItem struct {
	ID          string  `json:"id,omitempty"`
	Quantity    int     `json:"quantity"`
	Amount      float64 `json:"amount"`
	ItemCode    string  `json:"itemCode"`
	TaxCode     string  `json:"taxCode,omitempty"`
	Description string  `json:"description,omitempty"`
	TaxIncluded bool    `json:"taxIncluded,omitempty"`
}

// Addresses carries the origin and destination used for jurisdiction lookup.
type Addresses struct {
	ShipFrom *Address `json:"ShipFrom,omitempty"`
	ShipTo   *Address `json:"ShipTo,omitempty"`
}

// TransactionRequest is the payload for transactions/create.
//
// Code is the document code: the idempotency key for committed transactions.
// It must be empty for estimates and equal to the payment identifier for
// commits; Commit must never be true without a stable Code.
type TransactionRequest struct {
	Type                     string     `json:"type"`
	Code                     string     `json:"code,omitempty"`
	CompanyCode              string     `json:"companyCode"`
	Date                     string     `json:"date"`
	CustomerCode             string     `json:"customerCode"`
	Discount                 *float64   `json:"discount,omitempty"`
	Addresses                Addresses  `json:"addresses"`
	Lines                    []LineItem `json:"lines"`
	Commit                   bool       `json:"commit"`
	TaxDate                  string     `json:"taxDate,omitempty"`
	CurrencyCode             string     `json:"currencyCode"`
	BusinessIdentificationNo string     `json:"businessIdentificationNo,omitempty"`
}

// VoidRequest cancels a previously committed transaction.
type VoidRequest struct {
	CompanyCode string `json:"companyCode"`
	Code        string `json:"code"`
	Reason      string `json:"reason,omitempty"`
}
