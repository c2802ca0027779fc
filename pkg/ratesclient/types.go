package ratesclient

import (
	"fmt"
	"net/url"
	"time"
)

type Rate struct {
	ID            uint      `json:"id"`
	MaterialName  string    `json:"materialName"`
	Category      string    `json:"category"`
	Unit          string    `json:"unit"`
	CurrentPrice  float64   `json:"currentPrice"`
	PreviousPrice float64   `json:"previousPrice"`
	ChangePercent float64   `json:"changePercent"`
	QualityGrade  string    `json:"qualityGrade"`
	MarketTrend   string    `json:"marketTrend"`
	Source        string    `json:"source"`
	MinOrder      string    `json:"minOrder"`
	StockStatus   string    `json:"stockStatus"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

type Statistics struct {
	TotalMaterials int     `json:"totalMaterials"`
	Rising         int     `json:"rising"`
	Falling        int     `json:"falling"`
	Stable         int     `json:"stable"`
	AvgChange      float64 `json:"avgChange"`
	TotalPrice     float64 `json:"totalPrice"`
	AvgPrice       float64 `json:"avgPrice"`
}

type HistoryEntry struct {
	ID            uint      `json:"id"`
	RateID        uint      `json:"rateId"`
	Price         float64   `json:"price"`
	PreviousPrice float64   `json:"previousPrice"`
	ChangePercent float64   `json:"changePercent"`
	RecordedAt    time.Time `json:"recordedAt"`
}

type User struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	ShopName string `json:"shopName"`
}

type RatesPage struct {
	Rates []Rate     `json:"rates"`
	Stats Statistics `json:"stats"`
}

type ImportResult struct {
	Created []Rate `json:"created"`
	Skipped int    `json:"skipped"`
}

// CreateRate is the payload for creating a new material rate.
type CreateRate struct {
	MaterialName  string  `json:"materialName"`
	Category      string  `json:"category"`
	Unit          string  `json:"unit,omitempty"`
	CurrentPrice  float64 `json:"currentPrice"`
	PreviousPrice float64 `json:"previousPrice,omitempty"`
	QualityGrade  string  `json:"qualityGrade,omitempty"`
	MarketTrend   string  `json:"marketTrend,omitempty"`
	Source        string  `json:"source,omitempty"`
	MinOrder      string  `json:"minOrder,omitempty"`
	StockStatus   string  `json:"stockStatus,omitempty"`
}

// UpdateRate is a partial update. Nil fields are left unchanged.
type UpdateRate struct {
	MaterialName  *string  `json:"materialName,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Unit          *string  `json:"unit,omitempty"`
	CurrentPrice  *float64 `json:"currentPrice,omitempty"`
	PreviousPrice *float64 `json:"previousPrice,omitempty"`
	QualityGrade  *string  `json:"qualityGrade,omitempty"`
	MarketTrend   *string  `json:"marketTrend,omitempty"`
	Source        *string  `json:"source,omitempty"`
	MinOrder      *string  `json:"minOrder,omitempty"`
	StockStatus   *string  `json:"stockStatus,omitempty"`
}

type UpdateProfile struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	ShopName *string `json:"shopName,omitempty"`
}

type Signup struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name"`
	Role            string `json:"role"`
	Phone           string `json:"phone,omitempty"`
	Address         string `json:"address,omitempty"`
	ShopName        string `json:"shopName,omitempty"`
}

// ListOptions mirrors the server's filter and sort query parameters.
type ListOptions struct {
	Search   string
	Category string
	Quality  string
	SortBy   string
	SortDir  string
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Category != "" {
		q.Set("category", o.Category)
	}
	if o.Quality != "" {
		q.Set("quality", o.Quality)
	}
	if o.SortBy != "" {
		q.Set("sort_by", o.SortBy)
	}
	if o.SortDir != "" {
		q.Set("sort_dir", o.SortDir)
	}

	return q
}

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %v: %v", e.StatusCode, e.Message)
}
