package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Client calls GameService over a gRPC connection
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a GameService client
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// WithToken attaches a bearer token to outgoing calls made with ctx
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, authorizationHeader, bearerPrefix+token)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, "Register", in, opts)
}

func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, "Login", in, opts)
}

func (c *Client) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error) {
	return invoke[LogoutResponse](ctx, c.cc, "Logout", in, opts)
}

func (c *Client) UpdateLocation(ctx context.Context, in *UpdateLocationRequest, opts ...grpc.CallOption) (*UpdateLocationResponse, error) {
	return invoke[UpdateLocationResponse](ctx, c.cc, "UpdateLocation", in, opts)
}

func (c *Client) CollectCard(ctx context.Context, in *CollectCardRequest, opts ...grpc.CallOption) (*CollectCardResponse, error) {
	return invoke[CollectCardResponse](ctx, c.cc, "CollectCard", in, opts)
}

func (c *Client) ListInventory(ctx context.Context, in *ListInventoryRequest, opts ...grpc.CallOption) (*ListInventoryResponse, error) {
	return invoke[ListInventoryResponse](ctx, c.cc, "ListInventory", in, opts)
}

func (c *Client) StartBattle(ctx context.Context, in *StartBattleRequest, opts ...grpc.CallOption) (*BattleResponse, error) {
	return invoke[BattleResponse](ctx, c.cc, "StartBattle", in, opts)
}

func (c *Client) PlayCard(ctx context.Context, in *PlayCardRequest, opts ...grpc.CallOption) (*PlayCardResponse, error) {
	return invoke[PlayCardResponse](ctx, c.cc, "PlayCard", in, opts)
}

func (c *Client) EndTurn(ctx context.Context, in *EndTurnRequest, opts ...grpc.CallOption) (*EndTurnResponse, error) {
	return invoke[EndTurnResponse](ctx, c.cc, "EndTurn", in, opts)
}

func (c *Client) Surrender(ctx context.Context, in *SurrenderRequest, opts ...grpc.CallOption) (*SurrenderResponse, error) {
	return invoke[SurrenderResponse](ctx, c.cc, "Surrender", in, opts)
}

func (c *Client) GetBattle(ctx context.Context, in *GetBattleRequest, opts ...grpc.CallOption) (*GetBattleResponse, error) {
	return invoke[GetBattleResponse](ctx, c.cc, "GetBattle", in, opts)
}

func (c *Client) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*SendMessageResponse, error) {
	return invoke[SendMessageResponse](ctx, c.cc, "SendMessage", in, opts)
}

func (c *Client) ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*ListMessagesResponse, error) {
	return invoke[ListMessagesResponse](ctx, c.cc, "ListMessages", in, opts)
}

func (c *Client) CreateGuild(ctx context.Context, in *CreateGuildRequest, opts ...grpc.CallOption) (*GuildResponse, error) {
	return invoke[GuildResponse](ctx, c.cc, "CreateGuild", in, opts)
}

func (c *Client) JoinGuild(ctx context.Context, in *JoinGuildRequest, opts ...grpc.CallOption) (*GuildResponse, error) {
	return invoke[GuildResponse](ctx, c.cc, "JoinGuild", in, opts)
}

func (c *Client) LeaveGuild(ctx context.Context, in *LeaveGuildRequest, opts ...grpc.CallOption) (*LeaveGuildResponse, error) {
	return invoke[LeaveGuildResponse](ctx, c.cc, "LeaveGuild", in, opts)
}

func (c *Client) ListGuilds(ctx context.Context, in *ListGuildsRequest, opts ...grpc.CallOption) (*ListGuildsResponse, error) {
	return invoke[ListGuildsResponse](ctx, c.cc, "ListGuilds", in, opts)
}
