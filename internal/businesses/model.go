package businesses

import "time"

// Business mirrors the columns of the `businesses` table.
type Business struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Locality string `json:"locality"`
	Category string `json:"category"`

	Description *string `json:"description"`
	Phone       *string `json:"phone"`
	Website     *string `json:"website"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
	ImageURL    *string `json:"image_url"`

	OpeningHours *string  `json:"opening_hours"`
	Rating       *float64 `json:"rating"`
	Verified     bool     `json:"verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBusiness is the payload for Repo.Create.
type NewBusiness struct {
	Slug        string
	Name        string
	Locality    string
	Category    string
	Description *string
	Phone       *string
	Website     *string
	Email       *string
	Address     *string
	ImageURL    *string
}

// Patch holds optional fields; nil leaves the column unchanged.
type Patch struct {
	Name         *string
	Category     *string
	Description  *string
	Phone        *string
	Website      *string
	Email        *string
	Address      *string
	ImageURL     *string
	OpeningHours *string
	Rating       *float64
	Verified     *bool
}

// Locality is a city with the number of listed businesses.
type Locality struct {
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}
