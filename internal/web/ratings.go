package web

import (
	"net/http"
	"rankle/internal/back"

	"github.com/go-chi/chi/v5"
	"gopkg.in/guregu/null.v4"
)

type ratingPayload struct {
	Player             string    `json:"player"`
	Rating             float64   `json:"rating"`
	Deviation          float64   `json:"rd"`
	Volatility         float64   `json:"volatility"`
	ConservativeRating int       `json:"conservativeRating"`
	LastPlayedAt       null.Time `json:"lastPlayedAt"`
}

func newRatingPayload(r back.PlayerRating) ratingPayload {
	return ratingPayload{
		Player:             r.Player,
		Rating:             r.Rating,
		Deviation:          r.Deviation,
		Volatility:         r.Volatility,
		ConservativeRating: r.ConservativeRating(),
		LastPlayedAt:       null.NewTime(r.LastPlayedAt.Time.Time(), r.LastPlayedAt.Valid),
	}
}

func (s *Server) getRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := s.back.GetLeaderboard(tenantKey(r))
	if err != nil {
		s.error(w, err, http.StatusInternalServerError)
		return
	}

	payload := make([]ratingPayload, 0, len(ratings))
	for _, v := range ratings {
		payload = append(payload, newRatingPayload(v))
	}

	s.response(w, http.StatusOK, map[string]interface{}{"ratings": payload})
}

type historyPayload struct {
	Round              int     `json:"round"`
	Rating             float64 `json:"rating"`
	Deviation          float64 `json:"rd"`
	ConservativeRating int     `json:"conservativeRating"`
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	player := chi.URLParam(r, "player")

	history, err := s.back.GetRatingHistory(tenantKey(r), player)
	if err != nil {
		s.error(w, err, http.StatusInternalServerError)
		return
	}

	payload := make([]historyPayload, 0, len(history))
	for _, v := range history {
		payload = append(payload, historyPayload{
			Round:              v.Round,
			Rating:             v.Rating,
			Deviation:          v.Deviation,
			ConservativeRating: v.ConservativeRating,
		})
	}

	s.response(w, http.StatusOK, map[string]interface{}{"history": payload})
}
