// Package types contains common types used across the application
package types

import "time"

// RankedSender represents one row of a chat's sender ranking.
// Equal message counts share a rank.
type RankedSender struct {
	Rank         int     `json:"rank"`
	Name         string  `json:"name"`
	MessageCount int     `json:"message_count"`
	Share        float64 `json:"share"`
}

// TimelinePoint is the JSON shape of one timeline sample.
type TimelinePoint struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	RawX   float64 `json:"raw_x"`
	RawY   float64 `json:"raw_y"`
	XLabel string  `json:"x_label"`
	YLabel string  `json:"y_label"`
}

// Summary describes an analysis result.
type Summary struct {
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	Valid           bool       `json:"valid"`
	Reason          string     `json:"reason,omitempty"`
	TotalMessages   int        `json:"total_messages"`
	SenderCount     int        `json:"sender_count"`
	MaxMessageCount int        `json:"max_message_count"`
	Language        string     `json:"language,omitempty"`
	SkippedBlocks   int        `json:"skipped_blocks"`
	FirstMessageAt  *time.Time `json:"first_message_at,omitempty"`
	LastMessageAt   *time.Time `json:"last_message_at,omitempty"`
}

// Share returns count/total, or 0 when total is not positive.
func Share(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(count) / float64(total)
}
