package repository

import authdomain "github.com/saswatds/moneyy/internal/auth/domain"

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(user *authdomain.User) error
	// FindByEmail returns (nil, nil) when no user exists.
	FindByEmail(email string) (*authdomain.User, error)
	// FindByID returns (nil, nil) when no user exists.
	FindByID(id string) (*authdomain.User, error)
	Update(user *authdomain.User) error
	SaveRefreshToken(token *authdomain.RefreshToken) error
	FindRefreshToken(token string) (*authdomain.RefreshToken, error)
	DeleteRefreshToken(token string) error
}
