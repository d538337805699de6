package progression

import "testing"

func TestCalculateRank(t *testing.T) {
	cases := []struct {
		points int
		want   string
	}{
		{0, RankBeginner},
		{49, RankBeginner},
		{50, RankIntermediate},
		{199, RankIntermediate},
		{200, RankAdvanced},
		{499, RankAdvanced},
		{500, RankExpert},
		{999, RankExpert},
		{1000, RankMaster},
		{250000, RankMaster},
		{-10, RankBeginner},
	}

	for _, c := range cases {
		if got := CalculateRank(c.points); got != c.want {
			t.Errorf("CalculateRank(%d) = %q, want %q", c.points, got, c.want)
		}
	}
}

func TestCalculateRankMonotonic(t *testing.T) {
	prev := RankOrder(CalculateRank(0))
	for points := 1; points <= 1200; points++ {
		cur := RankOrder(CalculateRank(points))
		if cur < prev {
			t.Fatalf("rank went down at %d points: order %d -> %d", points, prev, cur)
		}
		prev = cur
	}
}

func TestRankOrderUnknown(t *testing.T) {
	if got := RankOrder("Grandmaster"); got != -1 {
		t.Errorf("RankOrder(unknown) = %d, want -1", got)
	}
}
