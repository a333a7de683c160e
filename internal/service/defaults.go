package service

import (
	"encoding/json"
)

// Setting keys seeded for every newly provisioned organization.
const (
	SettingKeyCategories  = "policy.categories"
	SettingKeyDepartments = "policy.departments"
	SettingKeyTags        = "policy.tags"
)

type defaultSetting struct {
	Key         string
	Value       json.RawMessage
	Description string
}

var defaultTaxonomy = []defaultSetting{
	{
		Key:         SettingKeyCategories,
		Value:       json.RawMessage(`["HR","Finance","IT Security","Compliance","Operations","Health & Safety"]`),
		Description: "Policy categories available when classifying a policy",
	},
	{
		Key:         SettingKeyDepartments,
		Value:       json.RawMessage(`["Human Resources","Finance","Engineering","Sales","Marketing","Legal"]`),
		Description: "Departments a policy can be scoped to",
	},
	{
		Key:         SettingKeyTags,
		Value:       json.RawMessage(`["mandatory","annual-review","new-hire","gdpr","remote-work"]`),
		Description: "Free-form tags for policy discovery",
	},
}

// Portals seeded for every newly provisioned organization.
type defaultPortal struct {
	Name        string
	Slug        string
	AccessType  string
	Description string
}

var defaultPortals = []defaultPortal{
	{
		Name:        "Public Portal",
		Slug:        "public",
		AccessType:  "public",
		Description: "Policies published to the outside world, including the embeddable widget",
	},
	{
		Name:        "Internal Portal",
		Slug:        "internal",
		AccessType:  "authenticated",
		Description: "Policies visible to authenticated members of the organization",
	},
}
