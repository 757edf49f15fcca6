package application

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"totopredict/domain/entities"
)

// seedDateLayout is the calendar date format used in seed files
const seedDateLayout = "2006-01-02"

// seedDraw is one entry of a draws seed file
type seedDraw struct {
	DrawNo           int64  `json:"draw_no"`
	Date             string `json:"date"`
	WinningNumbers   []int  `json:"winning_numbers"`
	AdditionalNumber int    `json:"additional_number"`
	PrizeAmount      int64  `json:"prize_amount"`
}

// LoadDrawsFile reads a JSON array of draws with "YYYY-MM-DD" dates
func LoadDrawsFile(path string) ([]*entities.HistoricalDraw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read draws file: %w", err)
	}

	var entries []seedDraw
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse draws file %s: %w", path, err)
	}

	draws := make([]*entities.HistoricalDraw, 0, len(entries))
	for _, entry := range entries {
		date, err := time.Parse(seedDateLayout, entry.Date)
		if err != nil {
			return nil, fmt.Errorf("draw %d has invalid date %q: %w", entry.DrawNo, entry.Date, err)
		}
		draws = append(draws, &entities.HistoricalDraw{
			DrawNo:           entry.DrawNo,
			DrawDate:         date,
			WinningNumbers:   entry.WinningNumbers,
			AdditionalNumber: entry.AdditionalNumber,
			PrizeAmount:      entry.PrizeAmount,
		})
	}
	return draws, nil
}
