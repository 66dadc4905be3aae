package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/geocards/geocards-api/internal/docstore"
	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/identity"
	"github.com/geocards/geocards-api/internal/pkg/clock"
	"github.com/geocards/geocards-api/internal/pkg/idgen"
)

type LocalTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *docstore.Memory
	clock    *clock.Fixed
	provider *identity.Local
	changes  []identity.StateChange
}

func TestLocalSuite(t *testing.T) {
	suite.Run(t, new(LocalTestSuite))
}

func (s *LocalTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = docstore.NewMemory()
	s.clock = clock.NewFixed(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	s.changes = nil

	var err error
	s.provider, err = identity.NewLocal(&identity.LocalConfig{
		Store:       s.store,
		Secret:      []byte("0123456789abcdef0123456789abcdef"),
		TokenTTL:    time.Hour,
		Clock:       s.clock,
		IDGenerator: idgen.NewSequential("uid"),
		BcryptCost:  bcrypt.MinCost,
	})
	s.Require().NoError(err)
	s.provider.OnStateChange(func(c identity.StateChange) {
		s.changes = append(s.changes, c)
	})
}

func (s *LocalTestSuite) TestNewLocal_Validation() {
	_, err := identity.NewLocal(&identity.LocalConfig{Secret: []byte("short")})
	s.True(errors.IsInvalidArgument(err))
}

func (s *LocalTestSuite) TestCreateAccountAndLogin() {
	created, err := s.provider.CreateAccount(s.ctx, " Player@Example.com ", "secret1")
	s.Require().NoError(err)
	s.Equal("uid_1", created.User.ID)
	s.Equal("player@example.com", created.User.Email)
	s.Equal(s.clock.Now().Add(time.Hour), created.ExpiresAt)

	user, err := s.provider.Verify(s.ctx, created.Token)
	s.Require().NoError(err)
	s.Equal(created.User, *user)

	loggedIn, err := s.provider.Login(s.ctx, "player@example.com", "secret1")
	s.Require().NoError(err)
	s.Equal("uid_1", loggedIn.User.ID)

	s.Require().Len(s.changes, 2)
	s.Equal("uid_1", s.changes[0].UserID)
	s.NotNil(s.changes[0].User)
}

func (s *LocalTestSuite) TestCreateAccountErrors() {
	_, err := s.provider.CreateAccount(s.ctx, "taken@example.com", "secret1")
	s.Require().NoError(err)

	testCases := []struct {
		name     string
		email    string
		password string
		code     errors.Code
		authCode string
	}{
		{"email in use", "taken@example.com", "secret1", errors.CodeAlreadyExists, identity.CodeEmailInUse},
		{"invalid email", "not-an-email", "secret1", errors.CodeInvalidArgument, identity.CodeInvalidEmail},
		{"weak password", "new@example.com", "12345", errors.CodeInvalidArgument, identity.CodeWeakPassword},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.provider.CreateAccount(s.ctx, tc.email, tc.password)
			s.Require().Error(err)
			s.Equal(tc.code, errors.GetCode(err))
			s.Equal(tc.authCode, identity.AuthCode(err))
			s.Equal(identity.Message(tc.authCode), errors.UserMessage(err))
		})
	}
}

func (s *LocalTestSuite) TestLoginErrors() {
	_, err := s.provider.CreateAccount(s.ctx, "player@example.com", "secret1")
	s.Require().NoError(err)

	_, err = s.provider.Login(s.ctx, "nobody@example.com", "secret1")
	s.Equal(identity.CodeUserNotFound, identity.AuthCode(err))
	s.True(errors.IsNotFound(err))

	_, err = s.provider.Login(s.ctx, "player@example.com", "wrong-password")
	s.Equal(identity.CodeWrongPassword, identity.AuthCode(err))
	s.True(errors.IsUnauthenticated(err))
}

func (s *LocalTestSuite) TestLogoutRevokesToken() {
	sess, err := s.provider.CreateAccount(s.ctx, "player@example.com", "secret1")
	s.Require().NoError(err)

	s.Require().NoError(s.provider.Logout(s.ctx, sess.Token))

	_, err = s.provider.Verify(s.ctx, sess.Token)
	s.True(errors.IsUnauthenticated(err))

	s.Require().Len(s.changes, 2)
	s.Equal(identity.StateChange{UserID: sess.User.ID}, s.changes[1])
}

func (s *LocalTestSuite) TestLogoutSignsOutAfterLastToken() {
	first, err := s.provider.CreateAccount(s.ctx, "player@example.com", "secret1")
	s.Require().NoError(err)
	second, err := s.provider.Login(s.ctx, "player@example.com", "secret1")
	s.Require().NoError(err)
	s.Require().Len(s.changes, 2)

	s.Require().NoError(s.provider.Logout(s.ctx, first.Token))
	s.Len(s.changes, 2)
	_, err = s.provider.Verify(s.ctx, second.Token)
	s.Require().NoError(err)

	s.Require().NoError(s.provider.Logout(s.ctx, second.Token))
	s.Require().Len(s.changes, 3)
	s.Equal(identity.StateChange{UserID: first.User.ID}, s.changes[2])
}

func (s *LocalTestSuite) TestLogoutIgnoresExpiredTokens() {
	stale, err := s.provider.CreateAccount(s.ctx, "player@example.com", "secret1")
	s.Require().NoError(err)
	s.clock.Advance(30 * time.Minute)
	fresh, err := s.provider.Login(s.ctx, "player@example.com", "secret1")
	s.Require().NoError(err)

	// the first token is past its expiry, so the second is the last live one
	s.clock.Advance(45 * time.Minute)
	s.Require().NoError(s.provider.Logout(s.ctx, fresh.Token))
	s.Require().Len(s.changes, 3)
	s.Equal(identity.StateChange{UserID: stale.User.ID}, s.changes[2])
}

func (s *LocalTestSuite) TestTokenExpires() {
	sess, err := s.provider.CreateAccount(s.ctx, "player@example.com", "secret1")
	s.Require().NoError(err)

	s.clock.Advance(2 * time.Hour)

	_, err = s.provider.Verify(s.ctx, sess.Token)
	s.Equal(identity.CodeInvalidToken, identity.AuthCode(err))
}

func (s *LocalTestSuite) TestForeignTokenRejected() {
	other, err := identity.NewLocal(&identity.LocalConfig{
		Store:       docstore.NewMemory(),
		Secret:      []byte("ffffffffffffffffffffffffffffffff"),
		Clock:       s.clock,
		IDGenerator: idgen.NewSequential("x"),
		BcryptCost:  bcrypt.MinCost,
	})
	s.Require().NoError(err)
	sess, err := other.CreateAccount(s.ctx, "player@example.com", "secret1")
	s.Require().NoError(err)

	_, err = s.provider.Verify(s.ctx, sess.Token)
	s.True(errors.IsUnauthenticated(err))

	_, err = s.provider.Verify(s.ctx, "")
	s.True(errors.IsUnauthenticated(err))
}

func (s *LocalTestSuite) TestStateChangeCancel() {
	calls := 0
	cancel := s.provider.OnStateChange(func(identity.StateChange) { calls++ })
	cancel()

	_, err := s.provider.CreateAccount(s.ctx, "player@example.com", "secret1")
	s.Require().NoError(err)
	s.Zero(calls)
}
