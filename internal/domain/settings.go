package domain

import "time"

// SystemSettings are the superuser-managed installation settings.
type SystemSettings struct {
	SystemName        string
	AdminEmail        string
	SupportPhone      string
	TicketPrefix      string
	NotificationEmail string
	UpdatedBy         *string
	UpdatedAt         time.Time
}

// DefaultSystemSettings returns the settings used until a superuser saves their own.
func DefaultSystemSettings() SystemSettings {
	return SystemSettings{
		SystemName:        "Wajir County ICT Help Desk",
		AdminEmail:        "admin@wajir.go.ke",
		SupportPhone:      "+254 XXX XXX XXX",
		TicketPrefix:      "WCG-ICT-",
		NotificationEmail: "notifications@wajir.go.ke",
	}
}
