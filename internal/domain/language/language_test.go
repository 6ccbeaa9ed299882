package language

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/chatrank/internal/domain/model"
)

func bodies(texts ...string) []model.Message {
	out := make([]model.Message, len(texts))
	for i, t := range texts {
		out[i] = model.Message{Sender: "A", Body: t}
	}
	return out
}

func TestDetect(t *testing.T) {
	Convey("Given an English conversation", t, func() {
		msgs := bodies(
			"Are we still meeting at the station tomorrow morning?",
			"Yes, I will bring the tickets and some coffee for everyone.",
			"Great, the train leaves at nine so please do not be late.",
		)

		Convey("When the language is detected", func() {
			res := Detect(msgs, 0)

			Convey("Then it should be English", func() {
				So(res.Code, ShouldEqual, "en")
				So(res.Name, ShouldEqual, "English")
				So(res.Confidence, ShouldBeGreaterThan, 0)
			})
		})
	})

	Convey("Given a German conversation", t, func() {
		msgs := bodies(
			"Treffen wir uns morgen früh noch am Bahnhof?",
			"Ja, ich bringe die Fahrkarten und Kaffee für alle mit.",
			"Super, der Zug fährt um neun, also bitte nicht zu spät kommen.",
		)

		Convey("Then it should be German", func() {
			So(Detect(msgs, 10).Code, ShouldEqual, "de")
		})
	})

	Convey("Given only empty bodies", t, func() {
		Convey("Then the result should be unknown", func() {
			So(Detect(bodies("", "  "), 0), ShouldResemble, Result{})
			So(Detect(nil, 0), ShouldResemble, Result{})
		})
	})
}
