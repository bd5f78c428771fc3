package models

import (
	"fmt"
)

type Asset struct {
	ID                     int              `json:"id"`
	Code                   string           `json:"code"`
	Model                  string           `json:"model"`
	CurrentProjectContract *ProjectContract `json:"current_project_contract,omitempty"`
	CurrentStaff           *Staff           `json:"current_staff,omitempty"`
}

type ProjectContract struct {
	ID          int    `json:"id"`
	CodeProject string `json:"code_project"`
}

type Staff struct {
	ID        int    `json:"id"`
	GivenName string `json:"given_name"`
	Surname   string `json:"surname"`
}

// GetURL returns the front-office detail URL for the asset in the given
// locale.
func (a *Asset) GetURL(locale string) string {
	if locale == "" {
		locale = "en"
	}
	return fmt.Sprintf("%s%s/logistics/assets/detail/%s", frontURL(), locale, a.Code)
}

func (a *Asset) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: "asset",
	}
}
