package main

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/geocards/geocards-api/internal/battle"
	"github.com/geocards/geocards-api/internal/config"
	"github.com/geocards/geocards-api/internal/docstore"
	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/handlers/v1alpha1"
	"github.com/geocards/geocards-api/internal/orchestrators/cards"
)

type ServerTestSuite struct {
	suite.Suite
	store  docstore.Store
	game   *game
	field  []*entities.Card
	server *grpc.Server
	conn   *grpc.ClientConn
	client *v1alpha1.Client
	ctx    context.Context
	cancel context.CancelFunc
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	cfg := config.Default()
	cfg.JWTSecret = "server-test-secret-0123456789"
	cfg.OpponentDelay = 0
	cfg.TurnReturnDelay = 0

	s.ctx, s.cancel = context.WithTimeout(context.Background(), 10*time.Second)

	var err error
	s.store, err = openStore(s.ctx, cfg)
	s.Require().NoError(err)

	s.game, err = newGame(cfg, s.store)
	s.Require().NoError(err)

	field, err := s.game.cards.EnsureField(s.ctx, &cards.EnsureFieldInput{})
	s.Require().NoError(err)
	s.Require().True(field.Generated)
	s.Require().NotEmpty(field.Cards)
	s.field = field.Cards

	lis := bufconn.Listen(1 << 20)
	s.server = newGRPCServer()
	v1alpha1.RegisterGameServiceServer(s.server, s.game.handler)
	go func() {
		_ = s.server.Serve(lis)
	}()

	s.conn, err = grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)
	s.client = v1alpha1.NewClient(s.conn)
}

func (s *ServerTestSuite) TearDownTest() {
	_ = s.conn.Close()
	s.server.Stop()
	s.game.Close()
	_ = s.store.Close()
	s.cancel()
}

func (s *ServerTestSuite) TestPlayerJourney() {
	auth, err := s.client.Register(s.ctx, &v1alpha1.RegisterRequest{Email: "walker@example.com", Password: "hunter22"})
	s.Require().NoError(err)
	s.Require().NotEmpty(auth.Token)
	s.Require().NotNil(auth.Profile)
	s.Equal(1, auth.Profile.Level)
	ctx := v1alpha1.WithToken(s.ctx, auth.Token)

	target := s.field[0]
	s.Require().Eventually(func() bool {
		resp, err := s.client.UpdateLocation(ctx, &v1alpha1.UpdateLocationRequest{Location: target.Location})
		if err != nil {
			return false
		}
		for _, c := range resp.Nearby {
			if c.ID == target.ID {
				return true
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond)

	collected, err := s.client.CollectCard(ctx, &v1alpha1.CollectCardRequest{CardID: target.ID})
	s.Require().NoError(err)
	s.Equal(target.Power, collected.Experience)
	s.False(collected.SyncPending)

	_, err = s.client.CollectCard(ctx, &v1alpha1.CollectCardRequest{CardID: target.ID})
	s.Equal(codes.FailedPrecondition, status.Code(err))

	inventory, err := s.client.ListInventory(ctx, &v1alpha1.ListInventoryRequest{})
	s.Require().NoError(err)
	s.NotEmpty(inventory.Items)

	started, err := s.client.StartBattle(ctx, &v1alpha1.StartBattleRequest{})
	s.Require().NoError(err)
	s.Equal(battle.PhasePlayerTurn, started.State.Phase)
	s.Equal(battle.MaxHP, started.State.PlayerHP)

	surrendered, err := s.client.Surrender(ctx, &v1alpha1.SurrenderRequest{})
	s.Require().NoError(err)
	s.Equal(battle.SideOpponent, surrendered.Outcome.Winner)
	s.True(surrendered.Outcome.Surrendered)

	sent, err := s.client.SendMessage(ctx, &v1alpha1.SendMessageRequest{Text: "hello map"})
	s.Require().NoError(err)
	s.Equal("walker@example.com", sent.Message.UserEmail)

	listed, err := s.client.ListMessages(ctx, &v1alpha1.ListMessagesRequest{})
	s.Require().NoError(err)
	s.Require().Len(listed.Messages, 1)
	s.Equal("hello map", listed.Messages[0].Text)

	created, err := s.client.CreateGuild(ctx, &v1alpha1.CreateGuildRequest{Name: "Walkers", Description: "We walk"})
	s.Require().NoError(err)
	s.Equal(entities.GuildPublic, created.Guild.Type)

	guilds, err := s.client.ListGuilds(ctx, &v1alpha1.ListGuildsRequest{})
	s.Require().NoError(err)
	s.Empty(guilds.Guilds)
	s.Require().NotNil(guilds.Current)
	s.Equal(created.Guild.ID, guilds.Current.ID)

	left, err := s.client.LeaveGuild(ctx, &v1alpha1.LeaveGuildRequest{})
	s.Require().NoError(err)
	s.True(left.Deleted)

	out, err := s.client.Logout(ctx, &v1alpha1.LogoutRequest{})
	s.Require().NoError(err)
	s.Equal(auth.UserID, out.UserID)

	_, err = s.client.ListInventory(ctx, &v1alpha1.ListInventoryRequest{})
	s.Equal(codes.Unauthenticated, status.Code(err))
}

func (s *ServerTestSuite) TestLoginAfterRegister() {
	_, err := s.client.Register(s.ctx, &v1alpha1.RegisterRequest{Email: "a@example.com", Password: "hunter22"})
	s.Require().NoError(err)

	_, err = s.client.Login(s.ctx, &v1alpha1.LoginRequest{Email: "a@example.com", Password: "wrong-pass"})
	s.Equal(codes.Unauthenticated, status.Code(err))

	auth, err := s.client.Login(s.ctx, &v1alpha1.LoginRequest{Email: "a@example.com", Password: "hunter22"})
	s.Require().NoError(err)
	s.NotEmpty(auth.Token)
}

func (s *ServerTestSuite) TestEnsureFieldIsStable() {
	again, err := s.game.cards.EnsureField(s.ctx, &cards.EnsureFieldInput{})
	s.Require().NoError(err)
	s.False(again.Generated)
	s.Len(again.Cards, len(s.field))
}

func TestOpenStoreRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.StoreBackend = config.BackendRedis
	cfg.RedisAddr = mr.Addr()

	store, err := openStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open redis store: %v", err)
	}
	if _, ok := store.(*docstore.Redis); !ok {
		t.Fatalf("expected *docstore.Redis, got %T", store)
	}
	_ = store.Close()
}
