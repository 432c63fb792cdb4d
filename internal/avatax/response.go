package avatax

import (
	"encoding/json"
	"math"
)

// TransactionLine is one computed line of a transaction response.
type TransactionLine struct {
	Tax     float64      `json:"tax"`
	Taxable float64      `json:"taxableAmount"`
	Details []LineDetail `json:"details"`
}

// LineDetail is a per-jurisdiction slice of a line's tax.
type LineDetail struct {
	Rate float64 `json:"rate"`
	Tax  float64 `json:"tax"`
}

// TransactionResponse is the parsed body of a transactions/create call.
type TransactionResponse struct {
	TotalTax     float64           `json:"totalTax"`
	TotalTaxable float64           `json:"totalTaxable"`
	Lines        []TransactionLine `json:"lines"`
}

// TaxRate is the aggregate rate of the transaction, derived by summing the
// per-jurisdiction detail rates on the first line.
func (r *TransactionResponse) TaxRate() float64 {
	if r == nil || len(r.Lines) == 0 {
		return 0
	}
	var rate float64
	for _, detail := range r.Lines[0].Details {
		rate += detail.Rate
	}
	return rate
}

// TaxDetails is the scalar outcome persisted onto a payment record.
type TaxDetails struct {
	Taxable float64 `json:"taxable"`
	Tax     float64 `json:"tax"`
	Rate    float64 `json:"rate"`
}

// Details extracts the persistable outcome. A response with no lines carries
// nothing worth recording and yields nil.
func (r *TransactionResponse) Details() *TaxDetails {
	if r == nil || len(r.Lines) == 0 {
		return nil
	}
	return &TaxDetails{
		Taxable: r.TotalTaxable,
		Tax:     r.TotalTax,
		Rate:    math.Round(r.TaxRate()*10000) / 10000,
	}
}

// ValidationMessage is one message returned by addresses/resolve.
type ValidationMessage struct {
	Severity string `json:"severity"`
	Summary  string `json:"summary"`
	Details  string `json:"details"`
}

// AddressResolution is the parsed body of an addresses/resolve call.
type AddressResolution struct {
	Address  Address             `json:"address"`
	Messages []ValidationMessage `json:"messages"`
}

// ErrorMessages returns validation messages of the given severity keyed by
// their summary text.
func (r *AddressResolution) ErrorMessages(severity string) map[string]string {
	messages := map[string]string{}
	if r == nil {
		return messages
	}
	for _, message := range r.Messages {
		if severity != "" && severity != message.Severity {
			continue
		}
		messages[message.Summary] = message.Details
	}
	return messages
}

// envelope is the generic shape every response is checked against before
// being handed to the caller. The void endpoint nests its payload one level
// deeper under CancelTaxResult; that wrapper has to be peeled off before the
// error check.
type envelope struct {
	Error           *apiError       `json:"error"`
	CancelTaxResult json.RawMessage `json:"CancelTaxResult"`
}

type apiError struct {
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Details []apiErrorDetail `json:"details"`
}

type apiErrorDetail struct {
	Message string `json:"message"`
}

// Messages AvaTax reports that map to something the registrant can fix.
// These win over whatever detail happens to come first.
var actionableMessages = map[string]struct{}{
	"The address is not deliverable.": {},
}

const unspecifiedErrorMessage = "Unspecified error."

// message picks the most useful human-readable error text: a known
// user-actionable message first, otherwise the first detail message found,
// otherwise a generic fallback.
func (e *apiError) message() string {
	selected := unspecifiedErrorMessage
	if e == nil {
		return selected
	}
	for _, detail := range e.Details {
		if detail.Message == "" {
			continue
		}
		if selected == unspecifiedErrorMessage {
			selected = detail.Message
		}
		if _, ok := actionableMessages[detail.Message]; ok {
			return detail.Message
		}
	}
	if selected == unspecifiedErrorMessage && e.Message != "" {
		selected = e.Message
	}
	return selected
}
