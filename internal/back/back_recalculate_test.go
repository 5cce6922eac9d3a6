package back // nolint:testpackage

import (
	"testing"
	"time"
)

func submitTestScores(t *testing.T, b *Back) {
	t.Helper()

	now := testNow()
	scores := []struct {
		player, text string
		at           time.Time
	}{
		{"Ann", "#Tradle #100 3/6", now},
		{"Bob", "#Tradle #100 5/6", now.Add(10 * time.Minute)},
		{"Chloé", "#Tradle #100 X/6", now.Add(20 * time.Minute)},
		{"Bob", "#Tradle #101 2/6", now.Add(24 * time.Hour)},
		{"Ann", "#Tradle #101 2/6", now.Add(25 * time.Hour)},
		{"Chloé", "#Tradle #102 4/6", now.Add(49 * time.Hour)},
	}

	for _, v := range scores {
		if _, _, err := b.SubmitScore("t1", v.player, v.text, v.at); err != nil {
			t.Fatal(err)
		}
	}
}

func snapshotRatings(t *testing.T, b *Back) map[string]PlayerRating {
	t.Helper()

	leaderboard, err := b.GetLeaderboard("t1")
	if err != nil {
		t.Fatal(err)
	}

	ret := make(map[string]PlayerRating, len(leaderboard))
	for _, v := range leaderboard {
		ret[v.Player] = v
	}

	return ret
}

func TestRecalculateReproducesLiveRatings(t *testing.T) {
	b := newTestBack(t)
	submitTestScores(t, b)

	live := snapshotRatings(t, b)

	// Two full replays from scratch must both land exactly on the live
	// state: the replay order (round, then submission time) reproduces the
	// original sequence of retroactive updates.
	for run := 0; run < 2; run++ {
		if err := b.Recalculate("t1"); err != nil {
			t.Fatal(err)
		}

		replayed := snapshotRatings(t, b)
		if len(replayed) != len(live) {
			t.Fatalf("run #%d: expected %d ratings, got %d", run, len(live), len(replayed))
		}

		for player, expected := range live {
			actual := replayed[player]
			if actual.Rating != expected.Rating ||
				actual.Deviation != expected.Deviation ||
				actual.Volatility != expected.Volatility ||
				actual.LastPlayedAt != expected.LastPlayedAt {
				t.Errorf("run #%d: %s diverged: %+v vs %+v", run, player, actual, expected)
			}
		}

		for player := range live {
			liveHistory, err := b.GetRatingHistory("t1", player)
			if err != nil {
				t.Fatal(err)
			}

			if len(liveHistory) == 0 {
				t.Errorf("run #%d: no history for %s after replay", run, player)
			}
		}
	}
}

func TestRecalculateScopesToOneTenant(t *testing.T) {
	b := newTestBack(t)
	submitTestScores(t, b)

	if _, _, err := b.SubmitScore("t2", "Zoé", "#Tradle #100 4/6", testNow()); err != nil {
		t.Fatal(err)
	}

	if err := b.Recalculate("t1"); err != nil {
		t.Fatal(err)
	}

	history, err := b.GetRatingHistory("t2", "Zoé")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 {
		t.Errorf("expected t2 history untouched, got %d rows", len(history))
	}
}

func TestRecalculateUnknownTenantFails(t *testing.T) {
	b := newTestBack(t)

	if err := b.Recalculate("nope"); err == nil {
		t.Error("expected an error for an unknown tenant key")
	}
}
