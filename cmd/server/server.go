package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/geocards/geocards-api/internal/battle"
	cardgen "github.com/geocards/geocards-api/internal/cards"
	"github.com/geocards/geocards-api/internal/config"
	"github.com/geocards/geocards-api/internal/docstore"
	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/handlers/v1alpha1"
	"github.com/geocards/geocards-api/internal/identity"
	"github.com/geocards/geocards-api/internal/orchestrators/account"
	battleorch "github.com/geocards/geocards-api/internal/orchestrators/battle"
	"github.com/geocards/geocards-api/internal/orchestrators/cards"
	"github.com/geocards/geocards-api/internal/orchestrators/chat"
	"github.com/geocards/geocards-api/internal/orchestrators/guild"
	"github.com/geocards/geocards-api/internal/orchestrators/session"
	"github.com/geocards/geocards-api/internal/pkg/clock"
	"github.com/geocards/geocards-api/internal/pkg/idgen"
	"github.com/geocards/geocards-api/internal/redis"
	"github.com/geocards/geocards-api/internal/relay"
	cardsrepo "github.com/geocards/geocards-api/internal/repositories/cards"
	chatrepo "github.com/geocards/geocards-api/internal/repositories/chat"
	guildrepo "github.com/geocards/geocards-api/internal/repositories/guild"
	"github.com/geocards/geocards-api/internal/repositories/profile"
)

var (
	envFile   string
	grpcPort  int
	withRelay bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC server",
	Long:  `Start the geocards GameService gRPC server. With --relay the WebSocket relay runs in the same process.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "port", 0, "gRPC server port (overrides GRPC_PORT)")
	serverCmd.Flags().BoolVar(&withRelay, "relay", false, "also run the WebSocket relay")
}

// loadConfig reads the environment and installs the process logger
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	slog.SetDefault(cfg.Logger(os.Stderr))
	return cfg, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		slog.Info("Received shutdown signal, gracefully stopping...")
	}()
	return ctx, cancel
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if grpcPort != 0 {
		cfg.GRPCPort = grpcPort
	}

	ctx, cancel := signalContext()
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close store", "error", err)
		}
	}()

	game, err := newGame(cfg, store)
	if err != nil {
		return err
	}
	defer game.Close()

	field, err := game.cards.EnsureField(ctx, &cards.EnsureFieldInput{})
	if err != nil {
		return errors.Wrap(err, "failed to load card field")
	}
	slog.Info("Card field ready", "cards", len(field.Cards), "generated", field.Generated)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return errors.Wrapf(err, "failed to listen on port %d", cfg.GRPCPort)
	}

	srv := newGRPCServer()
	v1alpha1.RegisterGameServiceServer(srv, game.handler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(v1alpha1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("gRPC server starting", "port", cfg.GRPCPort)
		if err := srv.Serve(lis); err != nil {
			return errors.Wrap(err, "failed to serve")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		healthServer.Shutdown()
		gracefulStop(srv, 30*time.Second)
		return nil
	})

	if withRelay {
		relayLis, err := relay.Listen(cfg.RelayPort, cfg.RelayPortAttempts)
		if err != nil {
			cancel()
			_ = g.Wait()
			return err
		}
		g.Go(func() error {
			return relay.Serve(ctx, relayLis, relay.NewHub(nil))
		})
	}

	return g.Wait()
}

func gracefulStop(srv *grpc.Server, timeout time.Duration) {
	slog.Info("Shutting down gRPC server...")

	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-time.After(timeout):
		slog.Warn("Graceful shutdown timeout exceeded, forcing stop")
		srv.Stop()
	case <-stopped:
		slog.Info("Server stopped gracefully")
	}
}

func newGRPCServer() *grpc.Server {
	logger := grpc_logging.LoggerFunc(logFunc)
	recovery := grpc_recovery.WithRecoveryHandlerContext(func(ctx context.Context, p any) error {
		slog.ErrorContext(ctx, "Recovered from panic", "panic", p)
		return status.Error(codes.Internal, "internal error")
	})

	return grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(logger),
			grpc_recovery.UnaryServerInterceptor(recovery),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(logger),
			grpc_recovery.StreamServerInterceptor(recovery),
		),
	)
}

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	slog.Log(ctx, slog.Level(level), msg, fields...)
}

func openStore(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client, err := redis.Connect(ctx, cfg.RedisAddr, &redis.Options{
			PoolSize:        10,
			MinIdleConns:    2,
			ConnMaxIdleTime: 5 * time.Minute,
			MaxRetries:      3,
		})
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to connect to redis")
		}
		store, err := docstore.NewRedis(&docstore.RedisConfig{Client: client})
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		slog.Info("Using redis store", "address", cfg.RedisAddr)
		return store, nil
	default:
		slog.Info("Using in-memory store")
		return docstore.NewMemory(), nil
	}
}

// game is the wired service graph behind the handler
type game struct {
	sessions *session.Manager
	battles  *battleorch.Orchestrator
	cards    cards.Service
	handler  *v1alpha1.Handler
}

func (g *game) Close() {
	if err := g.battles.Close(); err != nil {
		slog.Warn("Failed to close battle orchestrator", "error", err)
	}
	g.sessions.Close()
}

func newGame(cfg *config.Config, store docstore.Store) (*game, error) {
	clk := clock.New()

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, errors.Wrap(err, "failed to generate token secret")
		}
		slog.Warn("JWT_SECRET not set, tokens will not survive a restart")
	}

	provider, err := identity.NewLocal(&identity.LocalConfig{
		Store:       store,
		Secret:      secret,
		TokenTTL:    cfg.TokenTTL,
		Clock:       clk,
		IDGenerator: idgen.NewUUID("user"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create identity provider")
	}

	profileRepo, err := profile.NewDocstoreRepository(&profile.Config{Store: store})
	if err != nil {
		return nil, err
	}
	cardRepo, err := cardsrepo.NewDocstoreRepository(&cardsrepo.Config{Store: store})
	if err != nil {
		return nil, err
	}
	chatRepo, err := chatrepo.NewDocstoreRepository(&chatrepo.Config{Store: store})
	if err != nil {
		return nil, err
	}
	guildRepo, err := guildrepo.NewDocstoreRepository(&guildrepo.Config{Store: store})
	if err != nil {
		return nil, err
	}

	generator, err := cardgen.NewGenerator(&cardgen.Config{
		Roller:      dice.DefaultRoller,
		IDGenerator: idgen.NewUUID("card"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create card generator")
	}

	sessions, err := session.NewManager(&session.Config{
		Store:           store,
		Identity:        provider,
		Roller:          dice.DefaultRoller,
		Rewarder:        generator,
		IDGenerator:     idgen.NewUUID("battle"),
		Pacer:           battle.RealPacer{},
		OpponentDelay:   cfg.OpponentDelay,
		TurnReturnDelay: cfg.TurnReturnDelay,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session manager")
	}

	accountService, err := account.NewOrchestrator(&account.Config{
		Identity:    provider,
		Sessions:    sessions,
		ProfileRepo: profileRepo,
		Clock:       clk,
	})
	if err != nil {
		sessions.Close()
		return nil, err
	}

	cardService, err := cards.NewOrchestrator(&cards.Config{
		Sessions:            sessions,
		CardRepo:            cardRepo,
		ProfileRepo:         profileRepo,
		Generator:           generator,
		NearbyRadiusMeters:  cfg.NearbyRadiusMeters,
		CollectRadiusMeters: cfg.CollectRadiusMeters,
	})
	if err != nil {
		sessions.Close()
		return nil, err
	}

	battleService, err := battleorch.NewOrchestrator(&battleorch.Config{
		Sessions:    sessions,
		ProfileRepo: profileRepo,
		EventBus:    sessions.Bus(),
	})
	if err != nil {
		sessions.Close()
		return nil, err
	}

	g := &game{sessions: sessions, battles: battleService, cards: cardService}

	chatService, err := chat.NewOrchestrator(&chat.Config{
		Sessions: sessions,
		ChatRepo: chatRepo,
		Clock:    clk,
	})
	if err != nil {
		g.Close()
		return nil, err
	}

	guildService, err := guild.NewOrchestrator(&guild.Config{
		Sessions:    sessions,
		GuildRepo:   guildRepo,
		ProfileRepo: profileRepo,
		Clock:       clk,
	})
	if err != nil {
		g.Close()
		return nil, err
	}

	g.handler, err = v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		AccountService: accountService,
		CardService:    cardService,
		BattleService:  battleService,
		ChatService:    chatService,
		GuildService:   guildService,
	})
	if err != nil {
		g.Close()
		return nil, err
	}

	return g, nil
}
