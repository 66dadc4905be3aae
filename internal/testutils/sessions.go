package testutils

import (
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/geocards/geocards-api/internal/battle"
	"github.com/geocards/geocards-api/internal/cards"
	"github.com/geocards/geocards-api/internal/docstore"
	"github.com/geocards/geocards-api/internal/identity"
	identitymock "github.com/geocards/geocards-api/internal/identity/mock"
	"github.com/geocards/geocards-api/internal/orchestrators/session"
	"github.com/geocards/geocards-api/internal/pkg/idgen"
)

// CreateTestSessionManager builds a session manager over store. Battles run
// with an immediate pacer and rewards come from a generator on roller. The
// identity provider never reports sign-ins, so tests open sessions directly.
func CreateTestSessionManager(t *testing.T, store docstore.Store, roller dice.Roller) *session.Manager {
	t.Helper()

	ctrl := gomock.NewController(t)
	provider := identitymock.NewMockProvider(ctrl)
	provider.EXPECT().OnStateChange(gomock.Any()).Return(func() {}).AnyTimes()

	generator, err := cards.NewGenerator(&cards.Config{
		Roller:      roller,
		IDGenerator: idgen.NewSequential("reward"),
	})
	require.NoError(t, err)

	m, err := session.NewManager(&session.Config{
		Store:       store,
		Identity:    provider,
		Roller:      roller,
		Rewarder:    generator,
		IDGenerator: idgen.NewSequential("card"),
		Pacer:       battle.ImmediatePacer{},
	})
	require.NoError(t, err)
	t.Cleanup(m.Close)

	return m
}

// OpenTestSession opens the session of TestUserID
func OpenTestSession(t *testing.T, m *session.Manager) *session.Session {
	t.Helper()

	s, err := m.Open(identity.User{ID: TestUserID, Email: TestEmail})
	require.NoError(t, err)
	return s
}
