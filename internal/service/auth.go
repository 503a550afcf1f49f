package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/centralake/site-server-go/internal/config"
	"github.com/centralake/site-server-go/internal/model"
	"github.com/centralake/site-server-go/internal/util"
)

// dummyHash keeps the work per attempt uniform when the identifier is
// unknown, so response timing does not reveal which part was wrong.
var dummyHash, _ = util.HashPassword("centralake-dummy-credential")

type credential struct {
	email        string
	passwordHash string
	identity     model.Identity
}

// AuthService resolves a credential pair to an Identity. It has no side
// effects on application state and fails closed: anything that does not
// exactly match a known pair yields no identity.
type AuthService struct {
	creds []credential
}

func NewAuthService(cfg *config.Config, isProduction bool) (*AuthService, error) {
	adminHash := cfg.AdminPasswordHash
	clientHash := cfg.ClientPasswordHash

	// Outside production an unconfigured console still has to be usable:
	// derive hashes for the demo credentials at startup.
	if adminHash == "" && !isProduction {
		h, err := util.HashPassword(config.DemoAdminPassword)
		if err != nil {
			return nil, err
		}
		adminHash = h
		log.Warn().Str("email", cfg.AdminEmail).Msg("ADMIN_PASSWORD_HASH not set, using sandbox demo credentials")
	}
	if clientHash == "" && !isProduction {
		h, err := util.HashPassword(config.DemoClientPassword)
		if err != nil {
			return nil, err
		}
		clientHash = h
	}

	var creds []credential
	if adminHash != "" {
		creds = append(creds, credential{
			email:        cfg.AdminEmail,
			passwordHash: adminHash,
			identity: model.Identity{
				ID:    "admin_1",
				Email: cfg.AdminEmail,
				Name:  "Managing Partner",
				Role:  model.RoleAdmin,
			},
		})
	}
	if clientHash != "" {
		creds = append(creds, credential{
			email:        cfg.ClientEmail,
			passwordHash: clientHash,
			identity: model.Identity{
				ID:       "client_1",
				Email:    cfg.ClientEmail,
				Name:     "Sarah Jenkins",
				Role:     model.RoleClient,
				FirmName: "Global Endowment Fund",
			},
		})
	}

	return &AuthService{creds: creds}, nil
}

// Authenticate returns the matching Identity, or nil when the pair matches
// nothing. It never returns an error for bad credentials.
func (s *AuthService) Authenticate(ctx context.Context, email, secret string) *model.Identity {
	email = strings.ToLower(strings.TrimSpace(email))

	for _, c := range s.creds {
		if !util.ConstantTimeEqual(email, strings.ToLower(c.email)) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(c.passwordHash), []byte(secret)) != nil {
			return nil
		}
		identity := c.identity
		return &identity
	}

	// Unknown identifier: burn a comparison anyway.
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(secret))
	return nil
}
