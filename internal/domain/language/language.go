// Package language guesses the dominant language of a chat.
package language

import (
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/okian/chatrank/internal/domain/model"
)

// DefaultSampleSize is the number of leading messages inspected.
const DefaultSampleSize = 200

// Result is a language guess.
type Result struct {
	Code       string  // ISO 639-1, empty when unknown
	Name       string  // English name
	Confidence float64 // 0..1
	Reliable   bool
}

// Detect inspects the bodies of up to sampleSize leading messages.
// A non-positive sampleSize means DefaultSampleSize.
func Detect(messages []model.Message, sampleSize int) Result {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	if len(messages) > sampleSize {
		messages = messages[:sampleSize]
	}

	var b strings.Builder
	for _, m := range messages {
		body := strings.TrimSpace(m.Body)
		if body == "" {
			continue
		}
		b.WriteString(body)
		b.WriteByte('\n')
	}
	if b.Len() == 0 {
		return Result{}
	}

	info := whatlanggo.Detect(b.String())
	code := info.Lang.Iso6391()
	if code == "" {
		return Result{}
	}
	return Result{
		Code:       code,
		Name:       info.Lang.String(),
		Confidence: info.Confidence,
		Reliable:   info.IsReliable(),
	}
}
