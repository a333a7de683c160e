package model

import (
	"encoding/json"
	"time"
)

type Setting struct {
	OrganizationID string          `db:"organization_id" json:"organizationId"`
	SettingKey     string          `db:"setting_key" json:"settingKey"`
	SettingValue   json.RawMessage `db:"setting_value" json:"settingValue"`
	Description    *string         `db:"description" json:"description,omitempty"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updatedAt"`
}

type UpsertSettingParams struct {
	OrganizationID string
	SettingKey     string
	SettingValue   json.RawMessage
	Description    *string
}
