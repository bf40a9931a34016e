package domain

import "time"

type Profile struct {
	ID            string     `json:"id"`
	Bio           string     `json:"bio,omitempty"`
	Location      string     `json:"location,omitempty"`
	AvatarURL     string     `json:"avatar_url,omitempty"`
	QuizCompleted bool       `json:"quiz_completed"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// DisplayMetadata combina usuario y perfil para mostrar a un candidato.
// Los campos vacíos indican que el dato no existe (usuario sin perfil, sin avatar, etc.).
type DisplayMetadata struct {
	UserID    string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Image     string `json:"image,omitempty"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Location  string `json:"location,omitempty"`
}
