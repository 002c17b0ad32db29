package entity

import (
	"time"

	"gorm.io/gorm"
)

// Session keeps the token the monitoring API issued for a user.
type Session struct {
	Token     string `gorm:"primaryKey"`
	Email     string `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// User is one row of GET /data/usuario.
type User struct {
	Name         string `json:"nombre"`
	Email        string `json:"correo"`
	Role         string `json:"rol"`
	CreatedAt    string `json:"fecha_creacion,omitempty"`
	RegisteredAt string `json:"fecha_registro,omitempty"`
}

// Profile is the display form of User.
type Profile struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// FormatDate keeps the YYYY-MM-DD part of an ISO timestamp.
func FormatDate(iso string) string {
	if iso == "" {
		return "—"
	}
	if len(iso) > 10 {
		return iso[:10]
	}
	return iso
}

// Profile prefers fecha_registro and falls back to fecha_creacion.
func (u User) Profile() Profile {
	created := u.RegisteredAt
	if created == "" {
		created = u.CreatedAt
	}
	return Profile{Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: FormatDate(created)}
}

// Alert is the latest alert raised by the monitoring API.
type Alert struct {
	Date         *string `json:"fecha_alerta"`
	Time         *string `json:"hora_alerta"`
	Comments     *string `json:"comentarios"`
	PH           any     `json:"ph_valor"`
	LightPresent any     `json:"luz_detectada"`
	Temperature  any     `json:"temperatura"`
}

// Normalized trims the alert date to YYYY-MM-DD.
func (a Alert) Normalized() Alert {
	if a.Date != nil {
		d := FormatDate(*a.Date)
		a.Date = &d
	}
	return a
}
