package battle_test

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/geocards/geocards-api/internal/battle"
	"github.com/geocards/geocards-api/internal/docstore"
	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/errors"
	battleorch "github.com/geocards/geocards-api/internal/orchestrators/battle"
	"github.com/geocards/geocards-api/internal/orchestrators/session"
	"github.com/geocards/geocards-api/internal/repositories/profile"
	profilemock "github.com/geocards/geocards-api/internal/repositories/profile/mock"
	"github.com/geocards/geocards-api/internal/testutils"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctx          context.Context
	store        *docstore.Memory
	sessions     *session.Manager
	profileRepo  profile.Repository
	orchestrator *battleorch.Orchestrator
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = docstore.NewMemory()
	s.sessions = testutils.CreateTestSessionManager(s.T(), s.store, testutils.NewScriptedRoller())

	var err error
	s.profileRepo, err = profile.NewDocstoreRepository(&profile.Config{Store: s.store})
	s.Require().NoError(err)

	s.orchestrator = s.newOrchestrator(s.profileRepo)
}

func (s *OrchestratorTestSuite) newOrchestrator(repo profile.Repository) *battleorch.Orchestrator {
	o, err := battleorch.NewOrchestrator(&battleorch.Config{
		Sessions:    s.sessions,
		ProfileRepo: repo,
		EventBus:    s.sessions.Bus(),
	})
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = o.Close() })
	return o
}

func (s *OrchestratorTestSuite) seed(items ...*entities.InventoryItem) *session.Session {
	inv := make(map[string]*entities.InventoryItem, len(items))
	for _, item := range items {
		inv[item.ID] = item
	}
	_, err := s.profileRepo.Create(s.ctx, profile.CreateInput{
		UserID:  testutils.TestUserID,
		Profile: &entities.Profile{Email: testutils.TestEmail, Level: 1, Inventory: inv},
	})
	s.Require().NoError(err)
	return testutils.OpenTestSession(s.T(), s.sessions)
}

func (s *OrchestratorTestSuite) start() battle.State {
	out, err := s.orchestrator.Start(s.ctx, &battleorch.StartInput{UserID: testutils.TestUserID})
	s.Require().NoError(err)
	return out.State
}

func (s *OrchestratorTestSuite) TestStartDealsFromInventory() {
	s.seed(testutils.Inventory(5)...)

	state := s.start()
	s.Equal(battle.PhasePlayerTurn, state.Phase)
	s.Equal(battleorch.DefaultOpponentID, state.OpponentID)
	s.Equal(battle.MaxHP, state.PlayerHP)
	s.Equal(battle.MaxHP, state.OpponentHP)
	s.Equal(1, state.ManaCapacity)
	s.Len(state.Hand, battle.OpeningHandSize)
}

func (s *OrchestratorTestSuite) TestStartTwiceIsRejected() {
	s.seed(testutils.Inventory(3)...)
	s.start()

	_, err := s.orchestrator.Start(s.ctx, &battleorch.StartInput{UserID: testutils.TestUserID})
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestPlayCardAndEndTurn() {
	s.seed(testutils.Inventory(3)...)
	state := s.start()

	played, err := s.orchestrator.PlayCard(s.ctx, &battleorch.PlayCardInput{
		UserID:     testutils.TestUserID,
		HandCardID: state.Hand[0].InstanceID,
	})
	s.Require().NoError(err)
	s.True(played.Played)
	s.Equal(battle.MaxHP-1, played.State.OpponentHP)
	s.Equal(0, played.State.ManaAvailable)
	s.Len(played.State.Board, 1)

	rejected, err := s.orchestrator.PlayCard(s.ctx, &battleorch.PlayCardInput{
		UserID:     testutils.TestUserID,
		HandCardID: played.State.Hand[0].InstanceID,
	})
	s.Require().NoError(err)
	s.False(rejected.Played)
	s.Equal(played.State, rejected.State)

	ended, err := s.orchestrator.EndTurn(s.ctx, &battleorch.EndTurnInput{UserID: testutils.TestUserID})
	s.Require().NoError(err)
	s.True(ended.Accepted)
	s.Equal(battle.PhasePlayerTurn, ended.State.Phase)
	s.Equal(battle.MaxHP-1, ended.State.PlayerHP)
	s.Equal(2, ended.State.ManaCapacity)
	s.Equal(2, ended.State.TurnNumber)
}

func (s *OrchestratorTestSuite) TestPlayCardValidation() {
	s.seed(testutils.Inventory(3)...)
	s.start()

	_, err := s.orchestrator.PlayCard(s.ctx, &battleorch.PlayCardInput{UserID: testutils.TestUserID})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestWinPersistsRewardAndLevel() {
	sess := s.seed(testutils.DamageItem("bomb", 1, battle.MaxHP))
	state := s.start()

	out, err := s.orchestrator.PlayCard(s.ctx, &battleorch.PlayCardInput{
		UserID:     testutils.TestUserID,
		HandCardID: state.Hand[0].InstanceID,
	})
	s.Require().NoError(err)
	s.True(out.Played)
	s.Equal(battle.PhaseEnded, out.State.Phase)
	s.Equal(battle.SidePlayer, out.State.Winner)

	s.Eventually(func() bool {
		p, err := s.profileRepo.Get(s.ctx, profile.GetInput{UserID: testutils.TestUserID})
		return err == nil && p.Profile.Level == 2 && len(p.Profile.Inventory) == 2
	}, time.Second, 10*time.Millisecond)

	s.Equal(2, sess.Inventory().Len())
	s.Equal(2, sess.Progress().Level)
	s.False(sess.SyncPending())

	got, err := s.orchestrator.Get(s.ctx, &battleorch.GetInput{UserID: testutils.TestUserID})
	s.Require().NoError(err)
	s.Require().NotNil(got.Outcome)
	s.Equal(1, got.Outcome.LevelGained)
	s.Require().NotNil(got.Outcome.Reward)
	_, ok := sess.Inventory().Get(got.Outcome.Reward.ID)
	s.True(ok)
}

func (s *OrchestratorTestSuite) TestWinPersistsWhenNextBattleStartsImmediately() {
	sess := s.seed(testutils.DamageItem("bomb", 1, battle.MaxHP))

	// start the next battle from the update that reports the win, before
	// battle.ended is delivered
	var restarted bool
	subID := s.sessions.Bus().SubscribeFunc(battle.EventUpdated, 0, func(ctx context.Context, _ events.Event) error {
		if restarted || sess.Battle().Snapshot().Phase != battle.PhaseEnded {
			return nil
		}
		restarted = true
		_, err := s.orchestrator.Start(ctx, &battleorch.StartInput{UserID: testutils.TestUserID})
		return err
	})
	defer func() { _ = s.sessions.Bus().Unsubscribe(subID) }()

	state := s.start()
	_, err := s.orchestrator.PlayCard(s.ctx, &battleorch.PlayCardInput{
		UserID:     testutils.TestUserID,
		HandCardID: state.Hand[0].InstanceID,
	})
	s.Require().NoError(err)
	s.Require().True(restarted)
	s.Equal(battle.PhasePlayerTurn, sess.Battle().Snapshot().Phase)

	s.Eventually(func() bool {
		p, err := s.profileRepo.Get(s.ctx, profile.GetInput{UserID: testutils.TestUserID})
		return err == nil && p.Profile.Level == 2 && len(p.Profile.Inventory) == 2
	}, time.Second, 10*time.Millisecond)
	s.Equal(2, sess.Progress().Level)
	s.Equal(2, sess.Inventory().Len())
}

func (s *OrchestratorTestSuite) TestSurrenderRecordsLossWithoutReward() {
	s.seed(testutils.Inventory(3)...)
	s.start()

	out, err := s.orchestrator.Surrender(s.ctx, &battleorch.SurrenderInput{UserID: testutils.TestUserID})
	s.Require().NoError(err)
	s.Equal(battle.SideOpponent, out.Outcome.Winner)
	s.True(out.Outcome.Surrendered)
	s.Nil(out.Outcome.Reward)
	s.Equal(battle.PhaseEnded, out.State.Phase)

	again, err := s.orchestrator.Surrender(s.ctx, &battleorch.SurrenderInput{UserID: testutils.TestUserID})
	s.Require().NoError(err)
	s.Equal(out.Outcome, again.Outcome)

	p, err := s.profileRepo.Get(s.ctx, profile.GetInput{UserID: testutils.TestUserID})
	s.Require().NoError(err)
	s.Equal(1, p.Profile.Level)
	s.Len(p.Profile.Inventory, 3)
}

func (s *OrchestratorTestSuite) TestSurrenderWithoutBattle() {
	s.seed(testutils.Inventory(3)...)

	_, err := s.orchestrator.Surrender(s.ctx, &battleorch.SurrenderInput{UserID: testutils.TestUserID})
	s.True(errors.IsFailedPrecondition(err))

	got, err := s.orchestrator.Get(s.ctx, &battleorch.GetInput{UserID: testutils.TestUserID})
	s.Require().NoError(err)
	s.Equal(battle.PhaseNotStarted, got.State.Phase)
	s.Nil(got.Outcome)
}

func (s *OrchestratorTestSuite) TestRewardWriteFailureMarksSyncPending() {
	sess := s.seed(testutils.DamageItem("bomb", 1, battle.MaxHP))

	// replace the suite orchestrator so only one handler persists
	s.Require().NoError(s.orchestrator.Close())

	ctrl := gomock.NewController(s.T())
	repo := profilemock.NewMockRepository(ctrl)
	repo.EXPECT().AddInventoryItem(gomock.Any(), gomock.Any()).Return(nil, errors.Unavailable("store offline"))
	repo.EXPECT().UpdateProgress(gomock.Any(), profile.UpdateProgressInput{
		UserID: testutils.TestUserID,
		Level:  2,
	}).Return(nil, errors.Unavailable("store offline"))
	orch := s.newOrchestrator(repo)

	started, err := orch.Start(s.ctx, &battleorch.StartInput{UserID: testutils.TestUserID})
	s.Require().NoError(err)
	_, err = orch.PlayCard(s.ctx, &battleorch.PlayCardInput{
		UserID:     testutils.TestUserID,
		HandCardID: started.State.Hand[0].InstanceID,
	})
	s.Require().NoError(err)

	s.Eventually(sess.SyncPending, time.Second, 10*time.Millisecond)
	s.Equal(2, sess.Inventory().Len())
	s.Equal(2, sess.Progress().Level)
	s.Equal([]string{"users/user_1", "users/user_1/inventory"}, sess.DivergedPaths())
}

func (s *OrchestratorTestSuite) TestRequiresSession() {
	_, err := s.orchestrator.Start(s.ctx, &battleorch.StartInput{UserID: "nobody"})
	s.True(errors.IsFailedPrecondition(err))
}
