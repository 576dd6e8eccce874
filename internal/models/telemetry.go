package models

// Telemetry - показания устройства в момент срабатывания SOS
type Telemetry struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Speed     float64 `json:"speed"`
	Impact    float64 `json:"impact"`
}
