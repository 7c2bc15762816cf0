package model

import (
	"fmt"
	"strconv"
	"strings"
)

// VendorPrefix is the chassis-line code the logger prepends to vehicle ids.
// It carries no information for analysis and is stripped on normalization.
const VendorPrefix = "GT3-"

// UnassignedCarNumber marks a vehicle without an assigned car number.
const UnassignedCarNumber = 0

// Vehicle identifies a car by chassis code and car number.
// Two vehicles are considered equal when their chassis codes match,
// regardless of the (re-)assigned car number.
type Vehicle struct {
	ChassisCode string `json:"chassisCode"`
	CarNumber   int    `json:"carNumber"`
}

// ID is the composite vehicle id. An unassigned car number is omitted so
// ids round-trip through ParseVehicleID.
func (v Vehicle) ID() string {
	if v.CarNumber == UnassignedCarNumber {
		return v.ChassisCode
	}
	return fmt.Sprintf("%s-%d", v.ChassisCode, v.CarNumber)
}

func (v Vehicle) Equal(other Vehicle) bool {
	return v.ChassisCode == other.ChassisCode
}

// NormalizeVehicleID strips the vendor prefix from a raw vehicle id.
func NormalizeVehicleID(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), VendorPrefix)
}

// ParseVehicleID builds a Vehicle from a (raw or normalized) vehicle id.
// Ids have the shape <chassis>-<carNumber>; when the trailing segment is not
// numeric the whole id is taken as chassis code and the car number stays
// unassigned.
func ParseVehicleID(id string) Vehicle {
	normalized := NormalizeVehicleID(id)
	if idx := strings.LastIndex(normalized, "-"); idx > 0 {
		if num, err := strconv.Atoi(normalized[idx+1:]); err == nil && num >= 0 {
			return Vehicle{ChassisCode: normalized[:idx], CarNumber: num}
		}
	}
	return Vehicle{ChassisCode: normalized, CarNumber: UnassignedCarNumber}
}
