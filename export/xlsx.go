package export

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"gonext_go/geo"
	"gonext_go/models"

	"github.com/xuri/excelize/v2"
)

const itinerarySheet = "Маршрут"

var itineraryHeader = []string{"№", "Место", "Координаты", "От предыдущего, км", "Посещено", "Дата посещения", "Заметки"}

// WriteItinerary записывает маршрут поездки в XLSX. Для мест с координатами
// указывается расстояние от предыдущего места с координатами.
func WriteItinerary(w io.Writer, trip models.Trip, entries []models.TripPlaceWithPlace) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", itinerarySheet); err != nil {
		return fmt.Errorf("WriteItinerary: %w", err)
	}

	if err := f.SetCellValue(itinerarySheet, "A1", trip.Title); err != nil {
		return fmt.Errorf("WriteItinerary: %w", err)
	}
	if period := tripPeriod(trip); period != "" {
		if err := f.SetCellValue(itinerarySheet, "A2", period); err != nil {
			return fmt.Errorf("WriteItinerary: %w", err)
		}
	}

	const headerRow = 4
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("WriteItinerary: %w", err)
	}
	for i, title := range itineraryHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		if err := f.SetCellValue(itinerarySheet, cell, title); err != nil {
			return fmt.Errorf("WriteItinerary: %w", err)
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(itineraryHeader), headerRow)
	if err := f.SetCellStyle(itinerarySheet, first, last, bold); err != nil {
		return fmt.Errorf("WriteItinerary: %w", err)
	}
	_ = f.SetCellStyle(itinerarySheet, "A1", "A1", bold)

	var prev *geo.Point
	for i, entry := range entries {
		row := headerRow + 1 + i
		values := []interface{}{
			entry.Order,
			entry.Place.Name,
			deref(entry.Place.DD),
			"",
			visitedLabel(entry.Visited),
			deref(entry.VisitDate),
			deref(entry.Notes),
		}
		if entry.Place.DD != nil {
			point, err := geo.ParseCoordinates(*entry.Place.DD)
			if err != nil {
				log.Printf("WriteItinerary: некорректные координаты места %s: %v", entry.PlaceID, err)
			} else {
				if prev != nil {
					values[3] = roundKm(geo.DistanceKm(*prev, point))
				}
				prev = &point
			}
		}

		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(itinerarySheet, cell, &values); err != nil {
			return fmt.Errorf("WriteItinerary: строка %d: %w", row, err)
		}
	}

	_ = f.SetColWidth(itinerarySheet, "B", "B", 36)
	_ = f.SetColWidth(itinerarySheet, "C", "D", 20)
	_ = f.SetColWidth(itinerarySheet, "F", "G", 24)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("WriteItinerary: ошибка записи файла: %w", err)
	}
	return nil
}

// PlaceRow - место, прочитанное из строки Row листа (нумерация как в Excel, с 1).
type PlaceRow struct {
	Row   int
	Input models.PlaceInput
}

// ReadPlaces читает места из первого листа XLSX. Первая строка - заголовок;
// распознаются колонки name/Название, description/Описание, dd/Координаты
// (или отдельные lat/lon), visitlater и liked. Строки без названия пропускаются.
func ReadPlaces(r io.Reader) ([]PlaceRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("ReadPlaces: ошибка открытия файла: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("ReadPlaces: в файле нет листов")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("ReadPlaces: ошибка чтения листа %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []PlaceRow{}, nil
	}

	header := rows[0]
	idxName := headerIndex(header, "name", "Название", "Место")
	if idxName < 0 {
		return nil, fmt.Errorf("ReadPlaces: нет колонки с названием места")
	}
	idxDescription := headerIndex(header, "description", "Описание")
	idxDD := headerIndex(header, "dd", "Координаты")
	idxLat := headerIndex(header, "lat", "latitude", "Широта")
	idxLon := headerIndex(header, "lon", "longitude", "Долгота")
	idxVisitLater := headerIndex(header, "visitlater", "Посетить позже")
	idxLiked := headerIndex(header, "liked", "Понравилось")

	places := make([]PlaceRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		name := cell(row, idxName)
		if name == "" {
			continue
		}
		place := models.PlaceInput{
			Name:        name,
			Description: optional(cell(row, idxDescription)),
			DD:          optional(cell(row, idxDD)),
			VisitLater:  parseFlag(cell(row, idxVisitLater)),
			Liked:       parseFlag(cell(row, idxLiked)),
		}
		if place.DD == nil {
			if lat, lon := cell(row, idxLat), cell(row, idxLon); lat != "" && lon != "" {
				dd := lat + "," + lon
				place.DD = &dd
			}
		}
		places = append(places, PlaceRow{Row: i + 2, Input: place})
	}
	return places, nil
}

func headerIndex(header []string, names ...string) int {
	for i, h := range header {
		h = strings.TrimSpace(h)
		for _, name := range names {
			if strings.EqualFold(h, name) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "да", "yes", "+":
		return true
	}
	return false
}

func visitedLabel(visited bool) string {
	if visited {
		return "да"
	}
	return "нет"
}

func tripPeriod(trip models.Trip) string {
	switch {
	case trip.StartDate != nil && trip.EndDate != nil:
		return *trip.StartDate + " - " + *trip.EndDate
	case trip.StartDate != nil:
		return "с " + *trip.StartDate
	case trip.EndDate != nil:
		return "по " + *trip.EndDate
	}
	return ""
}

func roundKm(km float64) float64 {
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(km, 'f', 1, 64), 64)
	return rounded
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
