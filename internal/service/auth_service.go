package service

import (
	"context"
	"fmt"
	"strings"

	"salas/internal/domain"
	"salas/internal/logging"
	"salas/internal/models"

	"github.com/rs/zerolog"
)

// TokenPoster is the part of the dispatcher the login flow needs.
type TokenPoster interface {
	Post(ctx context.Context, endpoint string, body, out any) error
}

type AuthService struct {
	poster        TokenPoster
	session       domain.SessionManager
	tokenEndpoint string
	logger        *zerolog.Logger
}

func NewAuthService(poster TokenPoster, session domain.SessionManager, tokenEndpoint string, logger *zerolog.Logger) *AuthService {
	if tokenEndpoint == "" {
		tokenEndpoint = models.EndpointToken
	}
	return &AuthService{
		poster:        poster,
		session:       session,
		tokenEndpoint: tokenEndpoint,
		logger:        logging.Component(logger, "auth"),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse covers SimpleJWT (access), DRF authtoken (token) and Djoser (auth_token).
type loginResponse struct {
	Access    string `json:"access"`
	Token     string `json:"token"`
	AuthToken string `json:"auth_token"`
}

func (r loginResponse) token() string {
	for _, t := range []string{r.Access, r.Token, r.AuthToken} {
		if t = strings.TrimSpace(t); t != "" {
			return t
		}
	}
	return ""
}

// Login exchanges username/password for a bearer token and starts a session.
// The current session is replaced only once the new token arrives; a failed
// attempt leaves it intact.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Credential, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrEmptyLogin
	}

	var resp loginResponse
	if err := s.poster.Post(ctx, s.tokenEndpoint, loginRequest{Username: username, Password: password}, &resp); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("login failed")
		return nil, fmt.Errorf("login: %w", err)
	}

	token := resp.token()
	if token == "" {
		return nil, ErrNoToken
	}

	if err := s.session.Login(ctx, models.Credential{Token: token, Username: username}); err != nil {
		return nil, err
	}
	return s.session.Current(), nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

// Whoami returns the active credential or ErrNotLoggedIn.
func (s *AuthService) Whoami() (*models.Credential, error) {
	cred := s.session.Current()
	if cred == nil || !cred.LoggedIn {
		return nil, ErrNotLoggedIn
	}
	return cred, nil
}
