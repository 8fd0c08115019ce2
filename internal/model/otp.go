package model

type OTPPurpose string

const (
	OTPPurposeSignup OTPPurpose = "signup"
	OTPPurposeLogin  OTPPurpose = "login"
)

func (p OTPPurpose) Valid() bool {
	return p == OTPPurposeSignup || p == OTPPurposeLogin
}

type OTP struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	CodeHash  string     `json:"-"`
	Purpose   OTPPurpose `json:"purpose"`
	ExpiresAt int64      `json:"expires_at"`
	Attempts  int        `json:"attempts"`
	Ctime     int64      `json:"ctime"`
}
