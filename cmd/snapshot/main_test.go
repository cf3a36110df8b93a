package main

import (
	"math"
	"testing"
	"time"
)

func TestTimeOfDayWraps(t *testing.T) {
	cases := []struct {
		tod, elapsed float64
		want         float64
	}{
		{0.25, 0, 0.25},
		{1, 0, 0},
		{1.75, 0, 0.75},
		{3, 0, 0},
		{math.Inf(1), 0, 0},
		{-1, 2500, 0.25},
		{-1, 12500, 0.25},
	}
	for _, c := range cases {
		got := timeOfDay(c.tod, c.elapsed, 10*time.Second)
		if math.Abs(got-c.want) > 1e-12 {
			t.Errorf("timeOfDay(%v, %v) = %v, expected %v", c.tod, c.elapsed, got, c.want)
		}
		if got < 0 || got >= 1 {
			t.Errorf("timeOfDay(%v, %v) = %v outside [0,1)", c.tod, c.elapsed, got)
		}
	}
}
