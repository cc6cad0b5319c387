package models

// PriceBar is one end-of-day price observation for a security.
// Date is a calendar date in "2006-01-02" form; Close is the only
// field the resampler depends on, the rest are informational.
type PriceBar struct {
	Date   string  `json:"date"`
	Symbol string  `json:"symbol"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// PricePoint is one point of a resampled price series. Date is either a
// calendar day or the representative date of a week bucket.
type PricePoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// PriceResponse is the envelope served for price queries. Results
// carries the resampled series rather than the raw bars.
type PriceResponse struct {
	Range   DateRange    `json:"range"`
	Count   int          `json:"count"`
	Results []PricePoint `json:"results"`
}
