package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/KB1707/CramJam/core"
)

// Profile describes a student. Display only.
type Profile struct {
	Major     string   `json:"major" bson:"major" firestore:"major"`
	Year      string   `json:"year" bson:"year" firestore:"year"`
	Interests []string `json:"interests" bson:"interests" firestore:"interests"`
}

func (p Profile) IsZero() bool {
	return p.Major == "" && p.Year == "" && len(p.Interests) == 0
}

// Tooltip is the profile summary shown next to the author of a message.
func (p Profile) Tooltip() string {
	if p.IsZero() {
		return "No profile details available."
	}
	major, year := p.Major, p.Year
	if major == "" {
		major = "Unknown"
	}
	if year == "" {
		year = "Unknown"
	}
	return fmt.Sprintf("Major: %s\nYear: %s\nInterests: %s", major, year, strings.Join(p.Interests, ", "))
}

// Clean trims every field and drops blank interests.
func (p Profile) Clean() Profile {
	interests := make([]string, 0, len(p.Interests))
	for _, i := range p.Interests {
		if i = core.CleanString(i); i != "" {
			interests = append(interests, i)
		}
	}
	return Profile{
		Major:     core.CleanString(p.Major),
		Year:      core.CleanString(p.Year),
		Interests: interests,
	}
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// Credentials are what a user signs in with.
type Credentials struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Username = core.CleanString(c.Username)
	return validate.Struct(c)
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Username string  `json:"username" validate:"notblank,max=50"`
	Password string  `json:"password" validate:"notblank"`
	Profile  Profile `json:"profile"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Username = core.CleanString(nu.Username)
	nu.Profile = nu.Profile.Clean()
	return validate.Struct(nu)
}

// UpdateProfile defines the profile fields a user may edit.
type UpdateProfile struct {
	Major     string   `json:"major" validate:"max=100"`
	Year      string   `json:"year" validate:"max=20"`
	Interests []string `json:"interests" validate:"max=20,dive,max=50"`
}

func (up *UpdateProfile) Validate(validate *validator.Validate) error {
	p := Profile{Major: up.Major, Year: up.Year, Interests: up.Interests}.Clean()
	up.Major, up.Year, up.Interests = p.Major, p.Year, p.Interests
	return validate.Struct(up)
}

func (up UpdateProfile) Profile() Profile {
	return Profile{Major: up.Major, Year: up.Year, Interests: up.Interests}
}
