package domain

import "time"

// ImageRecord is one row per successful pipeline run.
type ImageRecord struct {
	ID             int64     `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	ImageName      string    `json:"image_name"`
	AdditionalText *string   `json:"additional_text,omitempty"`
}
