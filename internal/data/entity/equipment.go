package entity

type EquipmentType string

const (
	EquipmentTypeRacket EquipmentType = "RACKET"
	EquipmentTypeShoes  EquipmentType = "SHOES"
)

type Equipment struct {
	Base
	Name          string        `db:"name"`
	EquipmentType EquipmentType `db:"equipment_type"`
	TotalQuantity int           `db:"total_quantity"`
}
