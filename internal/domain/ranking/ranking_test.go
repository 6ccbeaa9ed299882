package ranking

import (
	"math/rand"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/chatrank/internal/domain/model"
)

func sendersOf(pairs ...any) []*model.Sender {
	out := make([]*model.Sender, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, &model.Sender{Name: pairs[i].(string), MessageCount: pairs[i+1].(int)})
	}
	return out
}

func names(ss []*model.Sender) []string {
	return lo.Map(ss, func(s *model.Sender, _ int) string { return s.Name })
}

func TestTree(t *testing.T) {
	Convey("Given an empty tree", t, func() {
		tree := NewTree()

		Convey("Then it should traverse to nothing", func() {
			So(tree.Len(), ShouldEqual, 0)
			So(tree.Ascending(), ShouldBeEmpty)
		})

		Convey("When a single sender is inserted", func() {
			tree.Insert(&model.Sender{Name: "Solo", MessageCount: 7})

			Convey("Then the tree should hold one node", func() {
				So(tree.Len(), ShouldEqual, 1)
				So(tree.root.left, ShouldBeNil)
				So(tree.root.right, ShouldBeNil)
				So(names(tree.Ascending()), ShouldResemble, []string{"Solo"})
			})
		})

		Convey("When equal counts are inserted", func() {
			for _, s := range sendersOf("A", 2, "B", 2, "C", 2) {
				tree.Insert(s)
			}

			Convey("Then each should descend left of the earlier ones", func() {
				So(tree.root.sender.Name, ShouldEqual, "A")
				So(tree.root.left.sender.Name, ShouldEqual, "B")
				So(tree.root.left.left.sender.Name, ShouldEqual, "C")
				So(names(tree.Ascending()), ShouldResemble, []string{"C", "B", "A"})
			})
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given senders with mixed counts", t, func() {
		in := sendersOf("Alice", 3, "Bob", 1, "Carol", 3, "Dave", 5, "Eve", 1)

		Convey("When they are ranked", func() {
			ranked := Rank(in)

			Convey("Then counts should be descending with insertion order among equals", func() {
				So(names(ranked), ShouldResemble, []string{"Dave", "Alice", "Carol", "Bob", "Eve"})
			})

			Convey("Then the ranking should be a permutation of the input", func() {
				So(len(ranked), ShouldEqual, len(in))
				So(ranked, ShouldContain, in[0])
				So(ranked, ShouldContain, in[4])
			})
		})
	})

	Convey("Given a shuffled population", t, func() {
		rng := rand.New(rand.NewSource(42))
		in := make([]*model.Sender, 0, 200)
		for i := 0; i < 200; i++ {
			in = append(in, &model.Sender{Name: string(rune('a'+i%26)) + string(rune('0'+i/26)), MessageCount: rng.Intn(10)})
		}

		Convey("When ranked", func() {
			ranked := Rank(in)
			pos := make(map[*model.Sender]int, len(in))
			for i, s := range in {
				pos[s] = i
			}

			Convey("Then adjacent pairs should respect the total order", func() {
				ok := true
				for i := 1; i < len(ranked); i++ {
					prev, cur := ranked[i-1], ranked[i]
					if prev.MessageCount < cur.MessageCount {
						ok = false
					}
					if prev.MessageCount == cur.MessageCount && pos[prev] > pos[cur] {
						ok = false
					}
				}
				So(ok, ShouldBeTrue)
				So(len(ranked), ShouldEqual, 200)
			})
		})
	})

	Convey("Given no senders", t, func() {
		Convey("Then the ranking should be empty", func() {
			So(Rank(nil), ShouldBeEmpty)
		})
	})
}

func TestAssignRanks(t *testing.T) {
	Convey("Given a descending ranking with ties", t, func() {
		ranked := Rank(sendersOf("Alice", 3, "Bob", 1, "Carol", 3, "Dave", 5))

		Convey("When ranks are assigned", func() {
			rows := AssignRanks(ranked, 12)

			Convey("Then equal counts should share a dense rank", func() {
				So(len(rows), ShouldEqual, 4)
				So(rows[0].Name, ShouldEqual, "Dave")
				So(rows[0].Rank, ShouldEqual, 1)
				So(rows[1].Rank, ShouldEqual, 2)
				So(rows[2].Rank, ShouldEqual, 2)
				So(rows[3].Rank, ShouldEqual, 3)
			})

			Convey("Then shares should be relative to the total", func() {
				So(rows[0].Share, ShouldAlmostEqual, 5.0/12.0)
				So(rows[3].Share, ShouldAlmostEqual, 1.0/12.0)
			})
		})
	})

	Convey("Given an empty ranking", t, func() {
		So(AssignRanks(nil, 0), ShouldBeEmpty)
	})
}
