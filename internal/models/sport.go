package models

// Sport is a league or competition tracked by the odds provider
type Sport struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name" validate:"required"`
	APIKey   string `db:"api_id" json:"api_id"` // provider sport key, e.g. basketball_nba
	Active   bool   `db:"active" json:"active"`
	IconPath string `db:"icon_path" json:"icon_path,omitempty"`
}

// Team is a participant within a sport
type Team struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name" validate:"required"`
	SportID  int64  `db:"sport_id" json:"sport_id" validate:"required,gt=0"`
	APIID    string `db:"api_id" json:"api_id,omitempty"`
	LogoPath string `db:"logo_path" json:"logo_path,omitempty"`
}
