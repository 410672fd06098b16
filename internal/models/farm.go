package models

import "time"

// DevUserID is the account used while authentication is bypassed.
const DevUserID = "00000000-0000-0000-0000-000000000001"

// Profile represents a farmer, expert or admin account
type Profile struct {
	ID        string    `json:"id" db:"id"`
	FullName  *string   `json:"full_name" db:"full_name"`
	Phone     *string   `json:"phone" db:"phone"`
	Role      string    `json:"role" db:"role"` // farmer, expert, admin
	Location  *string   `json:"location" db:"location"`
	FarmSize  *float64  `json:"farm_size" db:"farm_size"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileUpdate is the body of PATCH /api/profile
type ProfileUpdate struct {
	UserID   string   `json:"userId"`
	FullName *string  `json:"full_name"`
	Phone    *string  `json:"phone"`
	Location *string  `json:"location"`
	FarmSize *float64 `json:"farm_size"`
}

// ProfileStats counts a user's activity.
type ProfileStats struct {
	Scans   int `json:"scans"`
	Posts   int `json:"posts"`
	Records int `json:"records"`
}

// PlantDiagnosis is a persisted diagnosis row. Confidence is stored 0-1.
type PlantDiagnosis struct {
	ID                      string    `json:"id" db:"id"`
	UserID                  string    `json:"user_id" db:"user_id"`
	ImageURL                string    `json:"image_url" db:"image_url"`
	DiseaseName             *string   `json:"disease_name" db:"disease_name"`
	Confidence              *float64  `json:"confidence" db:"confidence"`
	Symptoms                *string   `json:"symptoms" db:"symptoms"`
	TreatmentRecommendation *string   `json:"treatment_recommendation" db:"treatment_recommendation"`
	Severity                *string   `json:"severity" db:"severity"`
	CropType                *string   `json:"crop_type" db:"crop_type"`
	DiagnosedAt             time.Time `json:"diagnosed_at" db:"diagnosed_at"`
	CreatedAt               time.Time `json:"created_at" db:"created_at"`
}

// CreateDiagnosisRequest is the body of POST /api/diagnoses
type CreateDiagnosisRequest struct {
	ImageURL                string   `json:"image_url"`
	DiseaseName             *string  `json:"disease_name"`
	Confidence              *float64 `json:"confidence"`
	Symptoms                *string  `json:"symptoms"`
	TreatmentRecommendation *string  `json:"treatment_recommendation"`
	Severity                *string  `json:"severity"`
	CropType                *string  `json:"crop_type"`
}

// Post categories
const (
	PostQuestion     = "question"
	PostTip          = "tip"
	PostDiscussion   = "discussion"
	PostSuccessStory = "success_story"
)

// CommunityPost is a forum post with its author's public fields joined in.
type CommunityPost struct {
	ID            string     `json:"id" db:"id"`
	AuthorID      string     `json:"author_id" db:"author_id"`
	Title         string     `json:"title" db:"title"`
	Content       string     `json:"content" db:"content"`
	Category      *string    `json:"category" db:"category"`
	Tags          StringList `json:"tags" db:"tags"`
	ImageURL      *string    `json:"image_url" db:"image_url"`
	LikesCount    int        `json:"likes_count" db:"likes_count"`
	CommentsCount int        `json:"comments_count" db:"comments_count"`
	ViewsCount    int        `json:"views_count" db:"views_count"`
	IsPinned      bool       `json:"is_pinned" db:"is_pinned"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`

	AuthorName *string `json:"author_name,omitempty" db:"author_name"`
	AuthorRole *string `json:"author_role,omitempty" db:"author_role"`
}

// CreatePostRequest is the body of POST /api/community/posts
type CreatePostRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category *string  `json:"category"`
	Tags     []string `json:"tags"`
	ImageURL *string  `json:"image_url"`
}

// PostComment is a reply on a community post.
type PostComment struct {
	ID         string    `json:"id" db:"id"`
	PostID     string    `json:"post_id" db:"post_id"`
	AuthorID   string    `json:"author_id" db:"author_id"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	AuthorName *string   `json:"author_name,omitempty" db:"author_name"`
	AuthorRole *string   `json:"author_role,omitempty" db:"author_role"`
}

// MarketRate is a mandi price observation.
type MarketRate struct {
	ID              string    `json:"id" db:"id"`
	CropName        string    `json:"crop_name" db:"crop_name"`
	Variety         *string   `json:"variety" db:"variety"`
	MarketLocation  string    `json:"market_location" db:"market_location"`
	State           *string   `json:"state" db:"state"`
	PricePerQuintal float64   `json:"price_per_quintal" db:"price_per_quintal"`
	PriceChange     float64   `json:"price_change" db:"price_change"`
	MinPrice        *float64  `json:"min_price" db:"min_price"`
	MaxPrice        *float64  `json:"max_price" db:"max_price"`
	Date            string    `json:"date" db:"date"` // YYYY-MM-DD
	Source          string    `json:"source" db:"source"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// MarketFilter narrows GET /api/market/rates
type MarketFilter struct {
	CropName       string
	MarketLocation string
	State          string
	Limit          int
}

// RecordTypes accepted for farm records.
var RecordTypes = map[string]bool{
	"planting": true, "irrigation": true, "fertilizer": true, "pesticide": true,
	"harvest": true, "expense": true, "income": true, "other": true,
}

// FarmRecord is one entry of a farmer's activity log.
type FarmRecord struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	RecordType  string    `json:"record_type" db:"record_type"`
	CropName    *string   `json:"crop_name" db:"crop_name"`
	Description string    `json:"description" db:"description"`
	Quantity    *float64  `json:"quantity" db:"quantity"`
	Unit        *string   `json:"unit" db:"unit"`
	Cost        float64   `json:"cost" db:"cost"`
	Date        string    `json:"date" db:"date"` // YYYY-MM-DD
	Notes       *string   `json:"notes" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// RecordInput is used for both create and partial update; nil fields are
// left untouched on update.
type RecordInput struct {
	RecordType  *string  `json:"record_type"`
	CropName    *string  `json:"crop_name"`
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity"`
	Unit        *string  `json:"unit"`
	Cost        *float64 `json:"cost"`
	Date        *string  `json:"date"`
	Notes       *string  `json:"notes"`
}

// RecordFilter narrows GET /api/records
type RecordFilter struct {
	RecordType string
	StartDate  string
	EndDate    string
	Limit      int
}

// RecordSummary totals a user's costs.
type RecordSummary struct {
	TotalExpenses float64            `json:"total_expenses"`
	TotalIncome   float64            `json:"total_income"`
	ByType        map[string]float64 `json:"by_type"`
}

// WeatherAlert is an advisory for a region.
type WeatherAlert struct {
	ID          string    `json:"id" db:"id"`
	Location    string    `json:"location" db:"location"`
	AlertType   string    `json:"alert_type" db:"alert_type"`
	Severity    int       `json:"severity" db:"severity"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	StartDate   string    `json:"start_date" db:"start_date"`
	EndDate     *string   `json:"end_date" db:"end_date"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Weather is the current conditions payload of GET /api/weather
type Weather struct {
	Location      string         `json:"location"`
	Temperature   int            `json:"temperature"`
	Humidity      int            `json:"humidity"`
	Condition     string         `json:"condition"`
	WindSpeed     int            `json:"wind_speed"`
	Precipitation int            `json:"precipitation"`
	Forecast      []ForecastItem `json:"forecast"`
}

// ForecastItem is one day of the forecast.
type ForecastItem struct {
	Day       string `json:"day"`
	Temp      int    `json:"temp"`
	Condition string `json:"condition"`
	Rain      int    `json:"rain"`
}

// Scheme is a government programme shown on the schemes page.
type Scheme struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"fullName"`
	Desc        string `json:"desc"`
	Subsidy     string `json:"subsidy"`
	MSP         string `json:"msp"`
	Category    string `json:"category"`
	Eligibility string `json:"eligibility"`
	Website     string `json:"website"`
}

// SchemeQuery is the body of POST /api/schemes/query
type SchemeQuery struct {
	SchemeName string `json:"schemeName"`
	Language   string `json:"language"`
}

// Upload describes a stored file.
type Upload struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}
