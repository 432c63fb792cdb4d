package avatax

import "strings"

// Address is the six-field schema AvaTax expects for both the ship-from
// and ship-to sides of a transaction.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (a Address) Empty() bool {
	return a.Line1 == "" && a.Line2 == "" && a.City == "" &&
		a.Region == "" && a.PostalCode == "" && a.Country == ""
}

// Field aliases accepted from submitted forms and stored member records.
var addressAliases = map[string]string{
	"line1":       "line1",
	"address":     "line1",
	"address_1":   "line1",
	"line2":       "line2",
	"address_2":   "line2",
	"city":        "city",
	"region":      "region",
	"state":       "region",
	"postal_code": "postalCode",
	"postalcode":  "postalCode",
	"zip":         "postalCode",
	"country":     "country",
}

// NormalizeAddress shapes a raw field mapping into the canonical schema.
// Unknown keys are ignored and missing fields default to empty strings.
func NormalizeAddress(fields map[string]string) Address {
	canonical := map[string]string{}
	for key, value := range fields {
		target, ok := addressAliases[strings.ToLower(strings.TrimSpace(key))]
		if !ok {
			continue
		}
		if canonical[target] == "" {
			canonical[target] = strings.TrimSpace(value)
		}
	}

	return Address{
		Line1:      canonical["line1"],
		Line2:      canonical["line2"],
		City:       canonical["city"],
		Region:     canonical["region"],
		PostalCode: canonical["postalCode"],
		Country:    canonical["country"],
	}
}
