package score

import (
	"testing"

	"git.lost.host/meutraa/strum/internal/game"
)

var judgeTests = []struct {
	distance float64
	expected game.Judgement
	ok       bool
}{
	{0, game.Perfect, true},
	{0.035, game.Perfect, true},
	{0.05, game.Good, true},
	{0.07, game.Good, true},
	{0.1, game.Ok, true},
	{0.11, game.Miss, false},
}

func TestJudge(t *testing.T) {
	c := DefaultConfig()
	for _, test := range judgeTests {
		j, ok := c.Judge(test.distance)
		if j != test.expected || ok != test.ok {
			t.Log("Distance", test.distance)
			t.Log("Judgement", j, ok)
			t.Log("Expected ", test.expected, test.ok)
			t.Fail()
		}
	}
}

var multiplierTests = map[uint32]uint64{0: 1, 9: 1, 10: 2, 19: 2, 20: 3, 30: 4, 500: 4}

func TestMultiplier(t *testing.T) {
	c := DefaultConfig()
	for combo, expected := range multiplierTests {
		if m := c.Multiplier(combo); m != expected {
			t.Log("Combo", combo, "Multiplier", m, "Expected", expected)
			t.Fail()
		}
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); nil != err {
		t.Log("default config is invalid", err)
		t.Fail()
	}
	broken := []func(*Config){
		func(c *Config) { c.Lookahead = 0 },
		func(c *Config) { c.HitLine = -1 },
		func(c *Config) { c.Windows[game.Good] = 0.2 },
		func(c *Config) { c.MinHold = 2 },
		func(c *Config) { c.MultiplierSteps = []uint32{20, 10} },
	}
	for i, breakConfig := range broken {
		c := DefaultConfig()
		breakConfig(&c)
		if err := c.Validate(); nil == err {
			t.Log("case", i, "should not validate")
			t.Fail()
		}
	}
}
