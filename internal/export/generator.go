// Package export renders trip history as a downloadable spreadsheet.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fleetdispatch/fleetdispatch/internal/trip"
)

// Filter narrows the exported history. Zero values mean no constraint.
type Filter struct {
	// FromDate and ToDate bound the trips' final dates, inclusive,
	// in YYYY-MM-DD form.
	FromDate string
	ToDate   string

	// DriverID limits the export to a single driver.
	DriverID string
}

// Generator builds the trip history workbook.
type Generator struct{}

// NewGenerator creates a new export generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the finished trips matching the filter into an xlsx
// workbook. Only completed and cancelled trips are exported.
func (g *Generator) Generate(trips []*trip.Trip, filter Filter) ([]byte, error) {
	matched := selectTrips(trips, filter)

	file := excelize.NewFile()

	sheet := "Trip History"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Period start")
	set("B1", orAll(filter.FromDate))
	set("A2", "Period end")
	set("B2", orAll(filter.ToDate))
	set("A3", "Trips")
	set("B3", len(matched))
	set("A4", "Total distance, km")
	set("B4", fmt.Sprintf("%.1f", sumDistance(matched)))

	tableRow := 6
	headers := []string{
		"Date",
		"Client",
		"Requested by",
		"Driver",
		"Service",
		"Itinerary",
		"Start",
		"End",
		"Distance, km",
		"Duration, min",
		"Status",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, t := range matched {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), t.FinalDate)
		set(fmt.Sprintf("B%d", row), t.Client)
		set(fmt.Sprintf("C%d", row), formatString(t.RequestedBy))
		set(fmt.Sprintf("D%d", row), t.DriverName)
		set(fmt.Sprintf("E%d", row), string(t.ServiceType))
		set(fmt.Sprintf("F%d", row), strings.Join(t.Stops, " → "))
		set(fmt.Sprintf("G%d", row), t.StartTimeActual)
		set(fmt.Sprintf("H%d", row), t.EndTimeActual)
		set(fmt.Sprintf("I%d", row), fmt.Sprintf("%.1f", t.TechnicalData.TotalDistanceKm))
		set(fmt.Sprintf("J%d", row), t.TechnicalData.TotalDurationMin)
		set(fmt.Sprintf("K%d", row), string(t.Status))
	}

	_ = file.SetColWidth(sheet, "A", "A", 12)
	_ = file.SetColWidth(sheet, "B", "D", 28)
	_ = file.SetColWidth(sheet, "E", "E", 12)
	_ = file.SetColWidth(sheet, "F", "F", 60)
	_ = file.SetColWidth(sheet, "G", "K", 14)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func selectTrips(trips []*trip.Trip, filter Filter) []*trip.Trip {
	var matched []*trip.Trip
	for _, t := range trips {
		if !t.Status.IsTerminal() {
			continue
		}
		if filter.FromDate != "" && t.FinalDate < filter.FromDate {
			continue
		}
		if filter.ToDate != "" && t.FinalDate > filter.ToDate {
			continue
		}
		if filter.DriverID != "" && t.DriverID != filter.DriverID {
			continue
		}
		matched = append(matched, t)
	}
	return matched
}

func sumDistance(trips []*trip.Trip) float64 {
	total := 0.0
	for _, t := range trips {
		total += t.TechnicalData.TotalDistanceKm
	}
	return total
}

func formatString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func orAll(value string) string {
	if value == "" {
		return "all"
	}
	return value
}
