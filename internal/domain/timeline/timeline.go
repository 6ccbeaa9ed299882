// Package timeline samples the cumulative message curve of a chat.
//
// Point j of the curve is (timestamp of message j, j). Long chats are
// downsampled with a fixed stride to at most MaxPoints points; trailing
// messages beyond the last full stride are not sampled. Each axis is then
// normalized independently to [0,1].
package timeline

import (
	"strconv"

	"github.com/okian/chatrank/internal/domain/model"
)

// MaxPoints is the default upper bound on sampled points.
const MaxPoints = 500

// LabelLayout formats the x label of a point.
const LabelLayout = "2006-01-02 15:04"

// Stride returns the sampling step for n messages and at most max points.
func Stride(n, max int) int {
	if max <= 0 || n <= max {
		return 1
	}
	return n / max
}

// Sample builds the normalized timeline of messages. A non-positive
// maxPoints means MaxPoints.
func Sample(messages []model.Message, maxPoints int) []model.TimelinePoint {
	if maxPoints <= 0 {
		maxPoints = MaxPoints
	}
	n := len(messages)
	if n == 0 {
		return nil
	}

	count := n
	if count > maxPoints {
		count = maxPoints
	}
	step := Stride(n, maxPoints)

	points := make([]model.TimelinePoint, count)
	for i := range points {
		j := i * step
		ts := messages[j].Timestamp
		points[i] = model.TimelinePoint{
			RawX:   float64(ts.UnixMilli()),
			RawY:   float64(j),
			XLabel: ts.Format(LabelLayout),
			YLabel: strconv.Itoa(j),
		}
	}
	normalize(points)
	return points
}

type axis struct {
	min, max float64
}

func (a axis) scale(v float64) float64 {
	if a.max == a.min {
		return 0
	}
	return (v - a.min) / (a.max - a.min)
}

func normalize(points []model.TimelinePoint) {
	x := axis{min: points[0].RawX, max: points[0].RawX}
	y := axis{min: points[0].RawY, max: points[0].RawY}
	for _, p := range points[1:] {
		x.min = min(x.min, p.RawX)
		x.max = max(x.max, p.RawX)
		y.min = min(y.min, p.RawY)
		y.max = max(y.max, p.RawY)
	}
	for i := range points {
		points[i].NormX = x.scale(points[i].RawX)
		points[i].NormY = y.scale(points[i].RawY)
	}
}
