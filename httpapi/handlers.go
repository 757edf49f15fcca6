package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"totopredict/domain/entities"
	"totopredict/domain/services"
)

// drawRequest is the body of POST /api/results
type drawRequest struct {
	DrawNo           int64  `json:"draw_no"`
	Date             string `json:"date"` // YYYY-MM-DD
	WinningNumbers   []int  `json:"winning_numbers"`
	AdditionalNumber int    `json:"additional_number"`
	PrizeAmount      int64  `json:"prize_amount"`
}

// drawResponse mirrors drawRequest with a calendar date
type drawResponse struct {
	DrawNo           int64  `json:"draw_no"`
	Date             string `json:"date"`
	WinningNumbers   []int  `json:"winning_numbers"`
	AdditionalNumber int    `json:"additional_number"`
	PrizeAmount      int64  `json:"prize_amount"`
}

// pageResponse is a page of results plus paging metadata
type pageResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func toDrawResponses(draws []*entities.HistoricalDraw) []drawResponse {
	out := make([]drawResponse, 0, len(draws))
	for _, d := range draws {
		out = append(out, drawResponse{
			DrawNo:           d.DrawNo,
			Date:             d.DrawDate.Format(time.DateOnly),
			WinningNumbers:   d.WinningNumbers,
			AdditionalNumber: d.AdditionalNumber,
			PrizeAmount:      d.PrizeAmount,
		})
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGeneratePrediction(w http.ResponseWriter, r *http.Request) {
	prediction, err := s.predictions.GeneratePrediction(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, prediction)
}

func (s *Server) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	predictions, err := s.predictions.RecentPredictions(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if predictions == nil {
		predictions = []*entities.Prediction{}
	}
	writeJSON(w, http.StatusOK, predictions)
}

func (s *Server) handleAccuracy(w http.ResponseWriter, r *http.Request) {
	rates, err := s.predictions.AccuracySummary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rates)
}

func (s *Server) handleLatestResults(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	draws, err := s.draws.LatestDraws(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDrawResponses(draws))
}

func (s *Server) handleResultsHistory(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	draws, total, err := s.draws.DrawHistory(r.Context(), page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse[drawResponse]{
		Data:  toDrawResponses(draws),
		Total: total,
		Page:  max(page, 1),
		Limit: services.ClampLimit(limit),
	})
}

func (s *Server) handleRecordResult(w http.ResponseWriter, r *http.Request) {
	var req drawRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeBadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		writeBadRequest(w, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", req.Date))
		return
	}

	draw := &entities.HistoricalDraw{
		DrawNo:           req.DrawNo,
		DrawDate:         date,
		WinningNumbers:   req.WinningNumbers,
		AdditionalNumber: req.AdditionalNumber,
		PrizeAmount:      req.PrizeAmount,
	}
	if err := s.draws.RecordDraw(r.Context(), draw); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDrawResponses([]*entities.HistoricalDraw{draw})[0])
}

// queryInt parses an optional integer query parameter
func queryInt(r *http.Request, key string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %s must be an integer", key)
	}
	return value, nil
}
