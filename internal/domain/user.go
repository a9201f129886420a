package domain

import "time"

// MaxActivityEntries es el limite de entradas en el registro de actividad.
const MaxActivityEntries = 100

// Proveedores de identidad externos soportados.
const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

// User es el documento persistido por usuario.
type User struct {
	ID       string `json:"id" bson:"id"`
	Name     string `json:"name" bson:"name"`
	Email    string `json:"email" bson:"email"`
	ImageURL string `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`

	PasswordHash   string `json:"passwordHash,omitempty" bson:"passwordHash,omitempty"`
	GoogleLinked   bool   `json:"googleLinked" bson:"googleLinked"`
	FacebookLinked bool   `json:"facebookLinked" bson:"facebookLinked"`

	IsEmailVerified          bool       `json:"isEmailVerified" bson:"isEmailVerified"`
	EmailVerificationToken   string     `json:"emailVerificationToken,omitempty" bson:"emailVerificationToken,omitempty"`
	EmailVerificationExpires *time.Time `json:"emailVerificationExpires,omitempty" bson:"emailVerificationExpires,omitempty"`
	PasswordResetToken       string     `json:"passwordResetToken,omitempty" bson:"passwordResetToken,omitempty"`
	PasswordResetExpires     *time.Time `json:"passwordResetExpires,omitempty" bson:"passwordResetExpires,omitempty"`

	IsAdmin bool `json:"isAdmin" bson:"isAdmin"`

	RegistrationDate time.Time  `json:"registrationDate" bson:"registrationDate"`
	LastLogin        *time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	LastActive       *time.Time `json:"lastActive,omitempty" bson:"lastActive,omitempty"`

	ActivityLog []ActivityEntry `json:"activityLog" bson:"activityLog"`
	Library     []LibraryItem   `json:"library" bson:"library"`
	History     []HistoryItem   `json:"history" bson:"history"`
}

// HasProviderLink indica si la cuenta esta asociada a algun proveedor externo.
func (u User) HasProviderLink() bool {
	return u.GoogleLinked || u.FacebookLinked
}

// LinkProvider marca el proveedor como vinculado. Devuelve false si el proveedor no es conocido.
func (u *User) LinkProvider(provider string) bool {
	switch provider {
	case ProviderGoogle:
		u.GoogleLinked = true
	case ProviderFacebook:
		u.FacebookLinked = true
	default:
		return false
	}
	return true
}

// AppendActivity agrega una entrada y descarta las mas antiguas por encima del limite.
func (u *User) AppendActivity(entry ActivityEntry) {
	u.ActivityLog = TrimActivity(append(u.ActivityLog, entry), MaxActivityEntries)
}

// TrimActivity conserva las ultimas max entradas.
func TrimActivity(log []ActivityEntry, max int) []ActivityEntry {
	if max <= 0 || len(log) <= max {
		return log
	}
	trimmed := make([]ActivityEntry, max)
	copy(trimmed, log[len(log)-max:])
	return trimmed
}

// ClearVerification elimina el token de verificacion pendiente.
func (u *User) ClearVerification() {
	u.EmailVerificationToken = ""
	u.EmailVerificationExpires = nil
}

// ClearPasswordReset elimina el token de restablecimiento pendiente.
func (u *User) ClearPasswordReset() {
	u.PasswordResetToken = ""
	u.PasswordResetExpires = nil
}

// PublicUser es la proyeccion expuesta a clientes.
type PublicUser struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	ImageURL         string    `json:"imageUrl,omitempty"`
	IsAdmin          bool      `json:"isAdmin"`
	IsEmailVerified  bool      `json:"isEmailVerified"`
	GoogleLinked     bool      `json:"googleLinked"`
	FacebookLinked   bool      `json:"facebookLinked"`
	RegistrationDate time.Time `json:"registrationDate"`
}

// Public construye la proyeccion sin hash, tokens ni registro de actividad.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		ImageURL:         u.ImageURL,
		IsAdmin:          u.IsAdmin,
		IsEmailVerified:  u.IsEmailVerified,
		GoogleLinked:     u.GoogleLinked,
		FacebookLinked:   u.FacebookLinked,
		RegistrationDate: u.RegistrationDate,
	}
}

// Profile es la vista completa del propio usuario, sin secretos.
type Profile struct {
	PublicUser
	LastLogin  *time.Time    `json:"lastLogin,omitempty"`
	LastActive *time.Time    `json:"lastActive,omitempty"`
	Library    []LibraryItem `json:"library"`
	History    []HistoryItem `json:"history"`
}

// Profile construye la vista de perfil.
func (u User) Profile() Profile {
	library := u.Library
	if library == nil {
		library = []LibraryItem{}
	}
	history := u.History
	if history == nil {
		history = []HistoryItem{}
	}
	return Profile{
		PublicUser: u.Public(),
		LastLogin:  u.LastLogin,
		LastActive: u.LastActive,
		Library:    library,
		History:    history,
	}
}
