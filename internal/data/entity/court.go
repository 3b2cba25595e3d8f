package entity

type CourtType string

const (
	CourtTypeIndoor  CourtType = "INDOOR"
	CourtTypeOutdoor CourtType = "OUTDOOR"
)

type Court struct {
	Base
	Name      string    `db:"name"`
	CourtType CourtType `db:"court_type"`
	IsActive  bool      `db:"is_active"`
}
