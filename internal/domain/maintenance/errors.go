package maintenance

import "errors"

var (
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrOrderNotFound     = errors.New("maintenance order not found")
)
