package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"salas/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	SheetRooms        = "Rooms"
	SheetReservations = "Reservations"

	cellTimeLayout = "2006-01-02 15:04"
)

var (
	roomHeaders        = []string{"ID", "Name", "Location", "Capacity", "Available"}
	reservationHeaders = []string{"ID", "Room", "User", "Start", "End", "Created"}
)

// WriteReservations сохраняет комнаты и бронирования в xlsx-файл по пути path.
func WriteReservations(path string, rooms []models.Room, reservations []models.Reservation) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating export directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRooms); err != nil {
		return fmt.Errorf("error renaming sheet: %w", err)
	}
	if err := writeRooms(f, rooms); err != nil {
		return err
	}

	index, err := f.NewSheet(SheetReservations)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	if err := writeReservations(f, reservations); err != nil {
		return err
	}
	f.SetActiveSheet(index)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

func writeRooms(f *excelize.File, rooms []models.Room) error {
	if err := writeHeader(f, SheetRooms, roomHeaders); err != nil {
		return err
	}
	for i, r := range rooms {
		row := []interface{}{r.ID, r.Name, r.Location, r.Capacity, r.Available}
		if err := writeRow(f, SheetRooms, i+2, row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(SheetRooms, "B", "C", 25)
	return nil
}

func writeReservations(f *excelize.File, reservations []models.Reservation) error {
	if err := writeHeader(f, SheetReservations, reservationHeaders); err != nil {
		return err
	}
	for i := range reservations {
		r := &reservations[i]
		room := r.Room.Name
		if room == "" {
			room = fmt.Sprintf("#%d", r.Room.ID)
		}
		row := []interface{}{
			r.ID,
			room,
			r.User.Username,
			formatTime(r.StartTime),
			formatTime(r.EndTime),
			formatTime(r.CreatedAt),
		}
		if err := writeRow(f, SheetReservations, i+2, row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(SheetReservations, "B", "F", 20)
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("error creating style: %w", err)
	}

	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := writeRow(f, sheet, 1, row); err != nil {
		return err
	}

	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheet, "A1", last, style)
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("error writing row %d: %w", rowNum, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(cellTimeLayout)
}
