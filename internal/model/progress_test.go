package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelForPoints(t *testing.T) {
	cases := []struct {
		points int
		want   ProgressLevel
	}{
		{0, LevelBeginner},
		{99, LevelBeginner},
		{100, LevelIntermediate},
		{499, LevelIntermediate},
		{500, LevelExpert},
		{1499, LevelExpert},
		{1500, LevelMaster},
		{4999, LevelMaster},
		{5000, LevelLegend},
		{100000, LevelLegend},
	}

	for _, c := range cases {
		require.Equal(t, c.want, LevelForPoints(c.points), "points=%d", c.points)
	}
}
