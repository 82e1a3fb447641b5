package models

// DailySummary aggregates one day (or an arbitrary window) of sales.
// Zero sales yield zeroed aggregates, never an error.
type DailySummary struct {
	Date            string         `json:"date,omitempty"`
	TotalSales      int            `json:"total_sales"`
	TotalRevenue    float64        `json:"total_revenue"`
	AverageTicket   float64        `json:"average_ticket"`
	UniqueClients   int            `json:"unique_clients"`
	ByPaymentMethod map[string]int `json:"by_payment_method"`
	TopItems        []TopItem      `json:"top_items"`
}

// TopItem is one entry of a top-sellers ranking within a window.
type TopItem struct {
	ItemType      string  `json:"item_type"`
	ItemID        int64   `json:"item_id"`
	ItemName      string  `json:"item_name"`
	TotalQuantity int     `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// SalesReport covers a named period (week, month, year) or a custom
// start/end window.
type SalesReport struct {
	Period    string       `json:"period"`
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Summary   DailySummary `json:"summary"`
}

// ReportRequestParams holds common query parameters for report endpoints.
type ReportRequestParams struct {
	Date      string `form:"date"`       // YYYY-MM-DD, daily summary
	Period    string `form:"period"`     // week, month, year
	StartDate string `form:"start_date"` // YYYY-MM-DD, custom window
	EndDate   string `form:"end_date"`   // YYYY-MM-DD, custom window
	TopN      int    `form:"top_n"`
}
