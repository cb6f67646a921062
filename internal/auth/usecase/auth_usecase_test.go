package usecase

import (
	"testing"
	"time"

	authdomain "github.com/saswatds/moneyy/internal/auth/domain"
	authdto "github.com/saswatds/moneyy/internal/auth/dto"

	"github.com/google/uuid"
	"github.com/saswatds/moneyy/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users  map[string]*authdomain.User
	tokens map[string]*authdomain.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[string]*authdomain.User),
		tokens: make(map[string]*authdomain.RefreshToken),
	}
}

func (r *fakeUserRepo) Create(user *authdomain.User) error {
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(id string) (*authdomain.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) Update(user *authdomain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) SaveRefreshToken(token *authdomain.RefreshToken) error {
	r.tokens[token.Token] = token
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	return r.tokens[token], nil
}

func (r *fakeUserRepo) DeleteRefreshToken(token string) error {
	delete(r.tokens, token)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
}

func TestRegisterLoginValidate(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewAuthUsecase(repo, testConfig())

	registered, err := uc.Register(&authdto.RegisterRequest{
		Email:    "jane@example.com",
		Password: "hunter22",
		Name:     "Jane",
	})
	require.NoError(t, err)
	require.NotEmpty(t, registered.AccessToken)
	require.NotEmpty(t, registered.RefreshToken)

	loggedIn, err := uc.Login(&authdto.LoginRequest{Email: "jane@example.com", Password: "hunter22"})
	require.NoError(t, err)

	user, err := uc.ValidateToken(loggedIn.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, "Jane", user.Name)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewAuthUsecase(repo, testConfig())

	_, err := uc.Register(&authdto.RegisterRequest{Email: "jane@example.com", Password: "hunter22", Name: "Jane"})
	require.NoError(t, err)

	_, err = uc.Register(&authdto.RegisterRequest{Email: "jane@example.com", Password: "other", Name: "Jane"})
	require.Error(t, err)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewAuthUsecase(repo, testConfig())

	_, err := uc.Register(&authdto.RegisterRequest{Email: "jane@example.com", Password: "hunter22", Name: "Jane"})
	require.NoError(t, err)

	_, err = uc.Login(&authdto.LoginRequest{Email: "jane@example.com", Password: "wrong"})
	require.Error(t, err)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewAuthUsecase(repo, testConfig())

	registered, err := uc.Register(&authdto.RegisterRequest{Email: "jane@example.com", Password: "hunter22", Name: "Jane"})
	require.NoError(t, err)

	refreshed, err := uc.RefreshToken(registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestRefreshToken_AfterLogout(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewAuthUsecase(repo, testConfig())

	registered, err := uc.Register(&authdto.RegisterRequest{Email: "jane@example.com", Password: "hunter22", Name: "Jane"})
	require.NoError(t, err)

	require.NoError(t, uc.Logout(registered.RefreshToken))

	_, err = uc.RefreshToken(registered.RefreshToken)
	require.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	uc := NewAuthUsecase(newFakeUserRepo(), testConfig())

	_, err := uc.ValidateToken("not-a-jwt")
	require.Error(t, err)
}
