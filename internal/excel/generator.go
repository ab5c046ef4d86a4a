package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/linchh/campus-carpool/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a principal's ride history as a workbook: a summary sheet
// plus one row per carpool.
func (g *Generator) Generate(owner model.Principal, carpools []model.Carpool) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "History"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Rider")
	set("B1", owner.Profile.Name)
	set("A2", "Username")
	set("B2", owner.Username)
	set("A3", "Role")
	set("B3", string(owner.Role))
	set("A4", "Rides")
	set("B4", len(carpools))

	tableRow := 6
	headers := []string{
		"Date",
		"Time",
		"Departure",
		"Arrival",
		"Fare",
		"Share",
		"Passengers",
		"Driver",
		"Status",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, cp := range carpools {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), formatDate(cp.Date))
		set(fmt.Sprintf("B%d", row), cp.Time)
		set(fmt.Sprintf("C%d", row), cp.FareEntry.Departure)
		set(fmt.Sprintf("D%d", row), cp.FareEntry.Arrival)
		set(fmt.Sprintf("E%d", row), cp.FareEntry.Fare)
		set(fmt.Sprintf("F%d", row), formatShare(cp.AverageFare()))
		set(fmt.Sprintf("G%d", row), cp.RosterSize())
		set(fmt.Sprintf("H%d", row), formatDriver(cp.Driver))
		set(fmt.Sprintf("I%d", row), string(cp.Status))
	}

	_ = file.SetColWidth(sheet, "A", "B", 12)
	_ = file.SetColWidth(sheet, "C", "D", 24)
	_ = file.SetColWidth(sheet, "E", "G", 12)
	_ = file.SetColWidth(sheet, "H", "H", 20)
	_ = file.SetColWidth(sheet, "I", "I", 12)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatShare(share *int) string {
	if share == nil {
		return ""
	}
	return fmt.Sprintf("%d", *share)
}

func formatDriver(driver *model.CarpoolDriver) string {
	if driver == nil {
		return ""
	}
	return driver.Name
}
