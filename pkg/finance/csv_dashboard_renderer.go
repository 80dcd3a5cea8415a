package finance

import (
	"bytes"
	"encoding/csv"

	log "github.com/sirupsen/logrus"
)

type DashboardRenderer interface {
	RenderDashboard(dashboard Dashboard) (string, error)
}

// CsvDashboardRendererImpl writes the per-unit table, then the trend and the
// upcoming series, separated by empty rows.
type CsvDashboardRendererImpl struct{}

func NewCsvDashboardRenderer() *CsvDashboardRendererImpl {
	return &CsvDashboardRendererImpl{}
}

func (r *CsvDashboardRendererImpl) RenderDashboard(d Dashboard) (string, error) {
	data := make([][]string, 0, len(d.UnitTotals)+len(d.Trend)+len(d.Upcoming.Series)+8)
	data = append(data, []string{"Unit", "Income", "Expense", "Net", "Valuation"})
	for _, u := range d.UnitTotals {
		data = append(data, []string{
			string(u.Unit),
			FormatAmount(u.Income, d.Currency),
			FormatAmount(u.Expense, d.Currency),
			FormatAmount(u.Net, d.Currency),
			FormatAmount(u.Valuation, d.Currency),
		})
	}
	data = append(data, []string{
		"SUM",
		FormatAmount(d.Income, d.Currency),
		FormatAmount(d.Expense, d.Currency),
		FormatAmount(d.Net, d.Currency),
		FormatAmount(d.Valuation, d.Currency),
	})

	data = append(data, []string{}, []string{"Period", "Income", "Expense", "Net"})
	for _, p := range d.Trend {
		data = append(data, []string{p.Period, FormatAmount(p.Income, d.Currency), FormatAmount(p.Expense, d.Currency), FormatAmount(p.Net(), d.Currency)})
	}

	data = append(data, []string{}, []string{"Upcoming", "Income", "Expense", "Net"})
	for _, p := range d.Upcoming.Series {
		data = append(data, []string{p.Period, FormatAmount(p.Income, d.Currency), FormatAmount(p.Expense, d.Currency), FormatAmount(p.Net(), d.Currency)})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	return b.String(), nil
}
