package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
)

const cookieName = "session"

// Identity - подтверждённые данные сессии
type Identity struct {
	UserID   int64
	Username string
}

// Manager выдаёт и проверяет сессионные cookie. Полезная нагрузка -
// подписанный HS256 токен: подделать нельзя, но он не зашифрован.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Establish подписывает identity в сессионную cookie
func (m *Manager) Establish(w http.ResponseWriter, userID int64, username string) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"exp":      time.Now().Add(m.ttl).Unix(),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("failed to sign session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
	return nil
}

// Current возвращает identity запроса. Любая проблема с cookie
// (нет, просрочена, битая подпись) означает анонимный запрос.
func (m *Manager) Current(r *http.Request) (Identity, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return Identity{}, false
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, false
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return Identity{}, false
	}
	username, _ := claims["username"].(string)

	return Identity{UserID: int64(userID), Username: username}, true
}

// Clear завершает сессию
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
