package rating // nolint:testpackage

import (
	"math"
	"testing"
)

func TestUpdateMatchesGlickoPaperExample(t *testing.T) {
	// Example computation from http://www.glicko.net/glicko/glicko2.pdf: a
	// 1500/200/0.06 player beating a 1400/30 opponent and losing to
	// 1550/100 and 1700/300.
	player := Rating{Rating: 1500, Deviation: 200, Volatility: 0.06}
	opponents := []Opponent{
		{Rating: 1400, Deviation: 30, Score: 1},
		{Rating: 1550, Deviation: 100, Score: 0},
		{Rating: 1700, Deviation: 300, Score: 0},
	}

	updated, err := Update(player, opponents)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(updated.Rating-1464.06) > 0.1 {
		t.Errorf("expected rating ≈ 1464.06, got %f", updated.Rating)
	}
	if math.Abs(updated.Deviation-151.52) > 0.1 {
		t.Errorf("expected deviation ≈ 151.52, got %f", updated.Deviation)
	}
	if math.Abs(updated.Volatility-0.05999) > 0.0001 {
		t.Errorf("expected volatility ≈ 0.05999, got %f", updated.Volatility)
	}
}

func TestUpdateWithoutOpponentsIsIdentity(t *testing.T) {
	cases := []Rating{
		NewRating(),
		{Rating: 1850.5, Deviation: 64.2, Volatility: 0.0583},
		{Rating: 912, Deviation: 350, Volatility: 0.06},
	}

	for k, v := range cases {
		updated, err := Update(v, nil)
		if err != nil {
			t.Fatal(err)
		}

		if updated != v {
			t.Errorf("case #%d: expected %+v got %+v", k, v, updated)
		}
	}
}

func TestUpdateKeepsStateBounded(t *testing.T) {
	cases := [][]Opponent{
		{{Rating: 1500, Deviation: 350, Score: 1}},
		{{Rating: 2600, Deviation: 30, Score: 0}},
		{
			{Rating: 400, Deviation: 30, Score: 0},
			{Rating: 400, Deviation: 30, Score: 0},
			{Rating: 400, Deviation: 30, Score: 0},
		},
	}

	player := NewRating()
	for k, opponents := range cases {
		updated, err := Update(player, opponents)
		if err != nil {
			t.Fatal(err)
		}

		if updated.Deviation < MinDeviation || updated.Deviation > MaxDeviation {
			t.Errorf("case #%d: deviation %f out of bounds", k, updated.Deviation)
		}
		if updated.Volatility <= 0 {
			t.Errorf("case #%d: non-positive volatility %f", k, updated.Volatility)
		}
	}
}

func TestUpdateMovesRatingWithOutcome(t *testing.T) {
	player := Rating{Rating: 1500, Deviation: 200, Volatility: 0.06}
	opponent := Opponent{Rating: 1500, Deviation: 200}

	opponent.Score = 1
	won, err := Update(player, []Opponent{opponent})
	if err != nil {
		t.Fatal(err)
	}
	if won.Rating <= player.Rating {
		t.Errorf("expected a win to raise the rating, got %f", won.Rating)
	}

	opponent.Score = 0
	lost, err := Update(player, []Opponent{opponent})
	if err != nil {
		t.Fatal(err)
	}
	if lost.Rating >= player.Rating {
		t.Errorf("expected a loss to lower the rating, got %f", lost.Rating)
	}
}

func TestUpdateIsOrderInsensitiveWithinOneCall(t *testing.T) {
	player := Rating{Rating: 1500, Deviation: 180, Volatility: 0.06}
	opponents := []Opponent{
		{Rating: 1380, Deviation: 60, Score: 1},
		{Rating: 1520, Deviation: 120, Score: 0.5},
		{Rating: 1710, Deviation: 250, Score: 0},
	}
	reversed := []Opponent{opponents[2], opponents[1], opponents[0]}

	a, err := Update(player, opponents)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Update(player, reversed)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(a.Rating-b.Rating) > 1e-9 ||
		math.Abs(a.Deviation-b.Deviation) > 1e-9 ||
		math.Abs(a.Volatility-b.Volatility) > 1e-9 {
		t.Errorf("opponent ordering changed the result: %+v vs %+v", a, b)
	}
}

// A single update against a batch of opponents is not the same thing as
// chaining single-opponent updates. The round orchestration relies on that
// distinction (batched for the submitter, incremental for the retroactive
// pass), so it must hold at the math level.
func TestBatchedUpdateDiffersFromIncremental(t *testing.T) {
	player := Rating{Rating: 1500, Deviation: 200, Volatility: 0.06}
	first := Opponent{Rating: 1450, Deviation: 80, Score: 1}
	second := Opponent{Rating: 1610, Deviation: 140, Score: 0}

	batched, err := Update(player, []Opponent{first, second})
	if err != nil {
		t.Fatal(err)
	}

	step, err := Update(player, []Opponent{first})
	if err != nil {
		t.Fatal(err)
	}
	incremental, err := Update(step, []Opponent{second})
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(batched.Rating-incremental.Rating) < 1e-6 {
		t.Errorf(
			"expected batched (%f) and incremental (%f) ratings to differ",
			batched.Rating, incremental.Rating,
		)
	}
}
