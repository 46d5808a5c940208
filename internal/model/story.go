package model

import "time"

// ChapterDateLayout is the layout of Chapter.UpdatedAt, e.g. "05 March 2024".
const ChapterDateLayout = "02 January 2006"

// Story is a serialized fiction record with its chapters embedded in reading order.
// It carries no persistence tags; the repository maps it to columns.
type Story struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Writers     string    `json:"writers"`
	Synopsis    string    `json:"synopsis"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	Keyword     []string  `json:"keyword"`
	Cover       string    `json:"cover"`
	Chapters    []Chapter `json:"chapters"`
	LastUpdated time.Time `json:"lastUpdated"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Chapter is owned by its Story and has no identity of its own.
// UpdatedAt is always computed by the server, formatted with ChapterDateLayout.
type Chapter struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	UpdatedAt string `json:"updatedAt"`
}
