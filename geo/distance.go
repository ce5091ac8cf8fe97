package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const earthRadiusKm = 6371

// Point - координаты в десятичных градусах.
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// ParseCoordinates разбирает строку вида "широта,долгота".
func ParseCoordinates(dd string) (Point, error) {
	parts := strings.Split(strings.TrimSpace(dd), ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("ParseCoordinates: неверный формат %q", dd)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("ParseCoordinates: широта %q: %w", parts[0], err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("ParseCoordinates: долгота %q: %w", parts[1], err)
	}
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return Point{}, fmt.Errorf("ParseCoordinates: координаты не являются числами %q", dd)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Point{}, fmt.Errorf("ParseCoordinates: координаты вне диапазона %q", dd)
	}
	return Point{Latitude: lat, Longitude: lon}, nil
}

func (p Point) String() string {
	return strconv.FormatFloat(p.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(p.Longitude, 'f', -1, 64)
}

func degToRad(d float64) float64 {
	return d * (math.Pi / 180)
}

// DistanceKm возвращает расстояние между точками по формуле гаверсинуса.
func DistanceKm(from, to Point) float64 {
	dLat := degToRad(to.Latitude - from.Latitude)
	dLon := degToRad(to.Longitude - from.Longitude)

	lat1Rad := degToRad(from.Latitude)
	lat2Rad := degToRad(to.Latitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
