package dashsdk

import "time"

// User is an account as returned by the service. The password hash is never
// present in responses.
type User struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         string      `json:"role"`
	UploadedData []DataEntry `json:"uploadedData"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// DataEntry is one embedded data record on a user.
type DataEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// FileInfo describes a stored upload.
type FileInfo struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalname"`
	SizeBytes    int64  `json:"size"`
}

// MessageResponse is the bare {message} acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse carries the session token and the logged-in user.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// UserResponse wraps a user-shaped mutation result.
type UserResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// CreateUserResponse carries the one-time temporary password for an
// admin-created user.
type CreateUserResponse struct {
	Message           string `json:"message"`
	User              User   `json:"user"`
	TemporaryPassword string `json:"temporary_password"`
}

// UploadResponse describes a stored file after upload.
type UploadResponse struct {
	Message string   `json:"message"`
	File    FileInfo `json:"file"`
}

// ChartSeries is the chart.js-shaped series built from an uploaded table.
type ChartSeries struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// ChartDataset is one dataset within a series.
type ChartDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor"`
	BorderWidth     int       `json:"borderWidth"`
}

// ChartResponse is the series plus the views that render it.
type ChartResponse struct {
	Series ChartSeries `json:"series"`
	Views  []string    `json:"views"`
}

// HealthResponse is returned by the livez and readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
}
