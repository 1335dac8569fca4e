package dto

import (
	"time"
	"tripbook/shared/constant"
	"tripbook/shared/model"
	"tripbook/shared/timezone"
)

// Metadata is the audit block of a response. Unset fields are left out.
type Metadata struct {
	CreatedAt  string `json:"created_at,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
	CreatedBy  string `json:"created_by,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(src model.Metadata) {
	m.CreatedAt = FormatTime(src.CreatedAt)
	m.ModifiedAt = FormatTime(src.ModifiedAt)
	m.CreatedBy = src.CreatedBy
	m.ModifiedBy = src.ModifiedBy
}

// FormatTime renders t in the app time zone, or "" for the zero time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return timezone.Format(t, constant.DateFormat)
}
