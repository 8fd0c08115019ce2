package model

type User struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Sport        Sport    `json:"sport"`
	City         string   `json:"city"`
	Area         string   `json:"area"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Verified     bool     `json:"verified"`
	Active       bool     `json:"active"`
	LastActive   int64    `json:"last_active"`
	Ctime        int64    `json:"ctime"`
	Mtime        int64    `json:"mtime"`
}

// HasLocation reports whether both coordinates are set.
func (u *User) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}
