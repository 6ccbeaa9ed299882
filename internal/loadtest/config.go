package loadtest

import (
	"time"

	"github.com/okian/chatrank/internal/domain/types"
	"github.com/okian/chatrank/internal/transcriptgen"
)

// Config holds configuration for the load test
type Config struct {
	BaseURL      string        // Base URL of the service
	Transcripts  int           // Number of distinct transcripts to upload
	Duplicates   int           // Number of extra uploads repeating earlier transcripts
	Messages     int           // Messages per transcript
	Senders      int           // Participants per transcript
	Noise        float64       // Ratio of system notifications per message
	Seed         uint64        // Seed of the first transcript; the rest follow
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	PollInterval time.Duration // Delay between result polls
	WaitTimeout  time.Duration // How long to wait for one analysis
	LogFile      string        // Log file for test output
	Verbose      bool          // Enable verbose logging
}

// Upload is one POST /chats request and what came back.
type Upload struct {
	Index      int
	Transcript transcriptgen.Transcript
	ID         string
	Duplicate  bool
	Err        error
}

// AckResponse represents the response from a transcript upload
type AckResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Outcome is the finished analysis of one upload as read back from the API.
type Outcome struct {
	Upload  *Upload
	Summary types.Summary
	Senders []types.RankedSender
	Err     error
}

// Stats holds test statistics
type Stats struct {
	TranscriptsGenerated int
	UploadsSubmitted     int
	UploadsAccepted      int
	UploadsDuplicate     int
	UploadsFailed        int
	ResultsRetrieved     int
	ResultsVerified      int
	ResultsMismatched    int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
