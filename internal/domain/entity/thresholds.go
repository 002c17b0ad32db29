package entity

import (
	"time"

	"gorm.io/gorm"
)

// Thresholds is the reactor configuration stored by the monitoring API.
type Thresholds struct {
	PHMin                float64 `json:"ph_min"`
	PHMax                float64 `json:"ph_max"`
	TemperatureMin       float64 `json:"temperatura_min"`
	TemperatureMax       float64 `json:"temperatura_max"`
	Agitation            bool    `json:"agitacion"`
	AgitationRecommended float64 `json:"agitacion_recomendada"`
	Interval             float64 `json:"intervalo"`
}

// ThresholdsUpdate carries only the fields the user filled in.
type ThresholdsUpdate struct {
	PHMin                *float64 `json:"ph_min,omitempty"`
	PHMax                *float64 `json:"ph_max,omitempty"`
	TemperatureMin       *float64 `json:"temperatura_min,omitempty"`
	TemperatureMax       *float64 `json:"temperatura_max,omitempty"`
	AgitationRecommended *float64 `json:"agitacion_recomendada,omitempty"`
	Interval             *float64 `json:"intervalo,omitempty"`
}

// ConfigurationID is the only configuration row the API exposes.
const ConfigurationID = 1

// Empty reports whether no field was provided.
func (u ThresholdsUpdate) Empty() bool {
	return u.PHMin == nil && u.PHMax == nil && u.TemperatureMin == nil &&
		u.TemperatureMax == nil && u.AgitationRecommended == nil && u.Interval == nil
}

// Payload builds the partial body for POST /data/configuraciones.
func (u ThresholdsUpdate) Payload() map[string]any {
	payload := map[string]any{"id": ConfigurationID}
	add := func(key string, v *float64) {
		if v != nil {
			payload[key] = *v
		}
	}
	add("ph_min", u.PHMin)
	add("ph_max", u.PHMax)
	add("temperatura_min", u.TemperatureMin)
	add("temperatura_max", u.TemperatureMax)
	add("agitacion_recomendada", u.AgitationRecommended)
	add("intervalo", u.Interval)
	return payload
}

// ThresholdChange records one accepted update.
type ThresholdChange struct {
	ChangeID  string         `gorm:"primaryKey;type:uuid" json:"change_id"`
	Email     string         `gorm:"index" json:"email"`
	Payload   string         `gorm:"not null;type:jsonb" json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ConfigUpdatedMessage is published after a successful update.
type ConfigUpdatedMessage struct {
	ChangeID string           `json:"change_id"`
	Email    string           `json:"email,omitempty"`
	Update   ThresholdsUpdate `json:"update"`
}
