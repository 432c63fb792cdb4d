package avatax

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxRate_SumsFirstLineDetails(t *testing.T) {
	resp := &TransactionResponse{
		Lines: []TransactionLine{
			{Details: []LineDetail{{Rate: 0.065}, {Rate: 0.021}, {Rate: 0.004}}},
			{Details: []LineDetail{{Rate: 0.5}}},
		},
	}

	assert.InDelta(t, 0.09, resp.TaxRate(), 1e-9)
}

func TestTaxRate_NoLines(t *testing.T) {
	assert.Zero(t, (&TransactionResponse{}).TaxRate())

	var nilResp *TransactionResponse
	assert.Zero(t, nilResp.TaxRate())
}

func TestDetails_RoundsRateToFourDecimals(t *testing.T) {
	resp := &TransactionResponse{
		TotalTax:     8.25,
		TotalTaxable: 100,
		Lines: []TransactionLine{
			{Details: []LineDetail{{Rate: 0.0825004}}},
		},
	}

	details := resp.Details()
	assert.NotNil(t, details)
	assert.Equal(t, 100.0, details.Taxable)
	assert.Equal(t, 8.25, details.Tax)
	assert.Equal(t, 0.0825, details.Rate)
}

func TestDetails_NilWhenNoLines(t *testing.T) {
	resp := &TransactionResponse{TotalTax: 5}
	assert.Nil(t, resp.Details())
}

func TestErrorMessages_FiltersBySeverity(t *testing.T) {
	resolution := &AddressResolution{
		Messages: []ValidationMessage{
			{Severity: "Error", Summary: "Address not geocoded.", Details: "The address could not be geocoded."},
			{Severity: "Warning", Summary: "Address changed.", Details: "The city was corrected."},
		},
	}

	msgs := resolution.ErrorMessages("Error")
	assert.Len(t, msgs, 1)
	assert.Equal(t, "The address could not be geocoded.", msgs["Address not geocoded."])
}

func TestAPIErrorMessage_PrefersActionable(t *testing.T) {
	err := &apiError{
		Message: "The request was invalid.",
		Details: []apiErrorDetail{
			{Message: "Some internal detail."},
			{Message: "The address is not deliverable."},
		},
	}
	assert.Equal(t, "The address is not deliverable.", err.message())
}

func TestAPIErrorMessage_FallsBackToFirstDetail(t *testing.T) {
	err := &apiError{
		Message: "The request was invalid.",
		Details: []apiErrorDetail{
			{Message: "Company not found."},
			{Message: "Second detail."},
		},
	}
	assert.Equal(t, "Company not found.", err.message())
}

func TestAPIErrorMessage_TopLevelThenUnspecified(t *testing.T) {
	assert.Equal(t, "The request was invalid.", (&apiError{Message: "The request was invalid."}).message())
	assert.Equal(t, "Unspecified error.", (&apiError{}).message())

	var nilErr *apiError
	assert.Equal(t, "Unspecified error.", nilErr.message())
}

func TestUnwrapCancelResult(t *testing.T) {
	raw := []byte(`{"CancelTaxResult":{"totalTax":1.5}}`)
	var resp TransactionResponse
	assert.NoError(t, json.Unmarshal(unwrapCancelResult(raw), &resp))
	assert.Equal(t, 1.5, resp.TotalTax)

	plain := []byte(`{"totalTax":2.5}`)
	assert.Equal(t, plain, unwrapCancelResult(plain))
}
