package domain

// Unknown stands in for a field whose element could not be located on the
// listing card. It is stored verbatim; the dashboard decides how to render it.
const Unknown = "N/A"

// Coupon is one scraped course-discount listing. Everything except
// CaptureDate is opaque text exactly as rendered on the page; numeric
// coercion of prices/ratings happens in the dashboard, not here.
type Coupon struct {
	CaptureDate      string `json:"date"` // YYYY-MM-DD, process clock at scrape time
	Title            string `json:"title"`
	CourseURL        string `json:"course"` // absolute offer URL, never relative
	ImageURL         string `json:"image"`
	Category         string `json:"category"`
	Provider         string `json:"provider"`
	Duration         string `json:"duration"`
	Rating           string `json:"rating"`
	Language         string `json:"language"`
	StudentsEnrolled string `json:"students_enrolled"`
	PriceDiscounted  string `json:"price_discounted"`
	PriceOriginal    string `json:"price_original"`
	Views            string `json:"views"`
}
