package dto

// InsightsRequest is the payload used by the extraction endpoints.
type InsightsRequest struct {
	WebsiteURL string `json:"website_url"`
}
