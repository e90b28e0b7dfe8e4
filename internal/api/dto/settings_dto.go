package dto

import "time"

// SettingsRequest replaces the system settings.
type SettingsRequest struct {
	SystemName        string `json:"system_name" validate:"required,max=120"`
	AdminEmail        string `json:"admin_email" validate:"required,email"`
	SupportPhone      string `json:"support_phone" validate:"required,max=40"`
	TicketPrefix      string `json:"ticket_prefix" validate:"required,max=20"`
	NotificationEmail string `json:"notification_email" validate:"required,email"`
}

// SettingsResponse view.
type SettingsResponse struct {
	SystemName        string     `json:"system_name"`
	AdminEmail        string     `json:"admin_email"`
	SupportPhone      string     `json:"support_phone"`
	TicketPrefix      string     `json:"ticket_prefix"`
	NotificationEmail string     `json:"notification_email"`
	UpdatedBy         *string    `json:"updated_by"`
	UpdatedAt         *time.Time `json:"updated_at"`
}
