package models

import (
	"strings"
	"time"
)

// Plan tiers
const (
	PlanFree         = "free"
	PlanProfessional = "professional"
)

// MaxWebsites is the cardinality limit on a customer's monitored-site list.
const MaxWebsites = 5

// Customer represents a row in the Customers sheet.
type Customer struct {
	ID            string    `json:"customer_id"`
	Email         string    `json:"email"`
	CompanyName   string    `json:"company_name"`
	Websites      []string  `json:"websites"`
	Plan          string    `json:"plan"`
	ScanFrequency string    `json:"scan_frequency"`
	Status        string    `json:"status"`
	APIToken      string    `json:"-"` // SECURITY: never expose tokens in API responses
	TokenIssuedAt time.Time `json:"-"`

	// RowNumber is the 1-based spreadsheet row the record was read from,
	// used to address targeted cell updates.
	RowNumber int `json:"-"`
}

// IsProfessional reports whether the customer is on a multi-site plan.
func (c *Customer) IsProfessional() bool {
	return strings.EqualFold(strings.TrimSpace(c.Plan), PlanProfessional)
}

// Subscription represents a row in the Subscriptions sheet (one per customer).
type Subscription struct {
	CustomerID         string  `json:"customer_id"`
	BillingReference   string  `json:"billing_reference"`
	Plan               string  `json:"plan"`
	Status             string  `json:"status"`
	CurrentPeriodStart string  `json:"current_period_start"`
	CurrentPeriodEnd   string  `json:"current_period_end"`
	Amount             float64 `json:"amount"`
	CreatedDate        string  `json:"created_date"`
	CancelledDate      string  `json:"cancelled_date,omitempty"`

	RowNumber int `json:"-"`
}

// Subscription statuses
const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
)

// ScanSummary represents one compliance scan of a website. Rows are written
// by the external scanner and are read-only here.
type ScanSummary struct {
	ScanID          string `json:"scan_id"`
	CustomerID      string `json:"customer_id"`
	WebsiteURL      string `json:"website_url"`
	PagesScanned    int    `json:"pages_scanned"`
	ComplianceScore int    `json:"compliance_score"`
	CriticalCount   int    `json:"critical_count"`
	SeriousCount    int    `json:"serious_count"`
	ModerateCount   int    `json:"moderate_count"`
	MinorCount      int    `json:"minor_count"`
	ScanDate        string `json:"scan_date"`
	Duration        string `json:"duration,omitempty"`
	Status          string `json:"status,omitempty"`
	AIAnalysis      string `json:"ai_analysis,omitempty"`
}

// Violation represents one accessibility issue detected during a scan.
type Violation struct {
	ViolationID  string `json:"violation_id"`
	ScanID       string `json:"scan_id"`
	RuleID       string `json:"rule_id"`
	Impact       string `json:"impact"`
	Description  string `json:"description"`
	Selector     string `json:"selector,omitempty"`
	HelpURL      string `json:"help_url,omitempty"`
	Status       string `json:"status,omitempty"`
	DetectedDate string `json:"detected_date,omitempty"`
	FixedDate    string `json:"fixed_date,omitempty"`
}

// Identity is the authenticated principal a handler acts on behalf of.
// Session identities carry the claims snapshot from issuance time; legacy
// identities are hydrated from the customer row.
type Identity struct {
	CustomerID string   `json:"customer_id"`
	Email      string   `json:"email,omitempty"`
	Plan       string   `json:"plan"`
	Websites   []string `json:"websites,omitempty"`
}

// HistoricalPoint is one (date, score) pair in the dashboard trend series.
type HistoricalPoint struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

// SiteReport is the per-website breakdown for multi-site customers.
type SiteReport struct {
	WebsiteURL string            `json:"website_url"`
	Score      *int              `json:"score"`
	LastScan   *ScanSummary      `json:"last_scan"`
	Violations []Violation       `json:"violations"`
	Historical []HistoricalPoint `json:"historical"`
}

// DashboardPayload is the aggregated response for the dashboard view.
type DashboardPayload struct {
	Customer     *Customer         `json:"customer"`
	Subscription *Subscription     `json:"subscription"`
	Score        *int              `json:"score"`
	LastScan     *ScanSummary      `json:"last_scan"`
	Violations   []Violation       `json:"violations"`
	Historical   []HistoricalPoint `json:"historical"`
	Sites        []SiteReport      `json:"sites,omitempty"`
}

// CancellationResult is returned by the cancel-subscription operation.
type CancellationResult struct {
	CustomerID       string `json:"customer_id"`
	Status           string `json:"status"`
	CancellationDate string `json:"cancellation_date"`
}
