package savegame

import "testing"

func TestTierTarget(t *testing.T) {
	cases := []struct {
		maxCount   int64
		target     int64
		recognized bool
	}{
		{1, 0, true},
		{99, 66, true},
		{999, 666, true},
		{9999, 6666, true},
		{10000, 6666, true},
		{50, 0, false},
		{0, 0, false},
		{100, 0, false},
	}
	for _, c := range cases {
		target, recognized := TierTarget(c.maxCount)
		if target != c.target || recognized != c.recognized {
			t.Errorf("TierTarget(%d) = (%d, %v), want (%d, %v)",
				c.maxCount, target, recognized, c.target, c.recognized)
		}
	}
}
