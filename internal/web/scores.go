package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"rankle/internal/back"
	"rankle/internal/util"
	"time"
)

type scorePayload struct {
	ID         string               `json:"id"`
	Player     string               `json:"player"`
	GameNumber int                  `json:"gameNumber"`
	Score      int                  `json:"score"`
	Solved     bool                 `json:"solved"`
	Raw        string               `json:"raw"`
	Timestamp  util.TimeAsTimestamp `json:"timestamp"`
}

func newScorePayload(s back.Score) scorePayload {
	return scorePayload{
		ID:         s.ID.String(),
		Player:     s.Player,
		GameNumber: s.Round,
		Score:      s.Score,
		Solved:     s.Solved(),
		Raw:        s.RawText,
		Timestamp:  s.CreatedAt,
	}
}

func (s *Server) getScores(w http.ResponseWriter, r *http.Request) {
	scores, err := s.back.GetScores(tenantKey(r))
	if err != nil {
		s.error(w, err, http.StatusInternalServerError)
		return
	}

	payload := make([]scorePayload, 0, len(scores))
	for _, v := range scores {
		payload = append(payload, newScorePayload(v))
	}

	s.response(w, http.StatusOK, map[string]interface{}{"scores": payload})
}

func (s *Server) postScore(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Player string `json:"player"`
		Score  string `json:"score"`
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.publicError(w, util.ErrPublic("invalid JSON"), http.StatusBadRequest)
		return
	}

	score, pr, err := s.back.SubmitScore(tenantKey(r), body.Player, body.Score, time.Now())
	if err != nil {
		var pub util.ErrPublic
		switch {
		case errors.As(err, &pub):
			s.publicError(w, pub, http.StatusBadRequest)
		case errors.Is(err, back.ErrDuplicateScore):
			s.publicError(w, util.ErrPublic(err.Error()), http.StatusConflict)
		default:
			s.error(w, err, http.StatusInternalServerError)
		}
		return
	}

	s.response(w, http.StatusCreated, map[string]interface{}{
		"score":  newScorePayload(score),
		"rating": newRatingPayload(pr),
	})
}
