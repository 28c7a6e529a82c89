package entity

// Product is a storefront item, either from the product feed or detected on the homepage.
type Product struct {
	Title string   `json:"title"`
	URL   string   `json:"url"`
	Price *float64 `json:"price"`
	Image *string  `json:"image"`
}

// FAQ is a single question and answer pair.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ContactDetails holds the contact channels found on a storefront.
type ContactDetails struct {
	Emails      []string `json:"emails"`
	Phones      []string `json:"phones"`
	ContactPage *string  `json:"contact_page"`
}

// BrandInsights aggregates everything extracted from one storefront.
// Optional fields stay nil when no qualifying content was found.
type BrandInsights struct {
	ProductCatalog []Product         `json:"product_catalog"`
	HeroProducts   []Product         `json:"hero_products"`
	PrivacyPolicy  *string           `json:"privacy_policy"`
	RefundPolicy   *string           `json:"refund_policy"`
	FAQs           []FAQ             `json:"faqs"`
	SocialHandles  map[string]string `json:"social_handles"`
	ContactDetails ContactDetails    `json:"contact_details"`
	About          *string           `json:"about"`
	ImportantLinks map[string]string `json:"important_links"`
}
