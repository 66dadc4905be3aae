package relay_test

import (
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/relay"
)

const (
	testTimeout = 2 * time.Second
	testTick    = 10 * time.Millisecond
)

type HubTestSuite struct {
	suite.Suite
	hub    *relay.Hub
	server *httptest.Server
	ctx    context.Context
	cancel context.CancelFunc
}

func TestHubTestSuite(t *testing.T) {
	suite.Run(t, new(HubTestSuite))
}

func (s *HubTestSuite) SetupTest() {
	s.hub = relay.NewHub(nil)
	s.server = httptest.NewServer(s.hub)
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 5*time.Second)
}

func (s *HubTestSuite) TearDownTest() {
	s.cancel()
	s.server.Close()
}

func (s *HubTestSuite) dial() *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http")
	conn, _, err := websocket.Dial(s.ctx, url, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() {
		_ = conn.CloseNow()
	})
	return conn
}

func (s *HubTestSuite) waitForPeers(n int) {
	s.Require().Eventually(func() bool {
		return s.hub.PeerCount() == n
	}, testTimeout, testTick)
}

func (s *HubTestSuite) TestForwardsToOtherPeers() {
	sender := s.dial()
	first := s.dial()
	second := s.dial()
	s.waitForPeers(3)

	s.Require().NoError(sender.Write(s.ctx, websocket.MessageText, []byte(`{"type":"ping"}`)))

	for _, conn := range []*websocket.Conn{first, second} {
		typ, data, err := conn.Read(s.ctx)
		s.Require().NoError(err)
		s.Equal(websocket.MessageText, typ)
		s.Equal(`{"type":"ping"}`, string(data))
	}
}

func (s *HubTestSuite) TestNeverEchoesToSender() {
	sender := s.dial()
	other := s.dial()
	s.waitForPeers(2)

	s.Require().NoError(sender.Write(s.ctx, websocket.MessageBinary, []byte{1, 2, 3}))

	typ, data, err := other.Read(s.ctx)
	s.Require().NoError(err)
	s.Equal(websocket.MessageBinary, typ)
	s.Equal([]byte{1, 2, 3}, data)

	// A read that times out closes the connection, so this runs last
	readCtx, cancel := context.WithTimeout(s.ctx, 100*time.Millisecond)
	defer cancel()
	_, _, err = sender.Read(readCtx)
	s.Error(err)
}

func (s *HubTestSuite) TestPeerRemovedOnClose() {
	conn := s.dial()
	s.dial()
	s.waitForPeers(2)

	s.Require().NoError(conn.Close(websocket.StatusNormalClosure, "bye"))
	s.waitForPeers(1)
}

func (s *HubTestSuite) TestLonePeer() {
	conn := s.dial()
	s.waitForPeers(1)

	s.Require().NoError(conn.Write(s.ctx, websocket.MessageText, []byte("anyone?")))
	s.Equal(1, s.hub.PeerCount())
}

type ListenTestSuite struct {
	suite.Suite
}

func TestListenTestSuite(t *testing.T) {
	suite.Run(t, new(ListenTestSuite))
}

func (s *ListenTestSuite) TestFallsBackWhenPortInUse() {
	taken, err := net.Listen("tcp", ":0")
	s.Require().NoError(err)
	defer taken.Close()
	port := taken.Addr().(*net.TCPAddr).Port

	lis, err := relay.Listen(port, 10)
	s.Require().NoError(err)
	defer lis.Close()

	got := lis.Addr().(*net.TCPAddr).Port
	s.Greater(got, port)
	s.Less(got, port+10)
}

func (s *ListenTestSuite) TestExhaustedAttempts() {
	taken, err := net.Listen("tcp", ":0")
	s.Require().NoError(err)
	defer taken.Close()
	port := taken.Addr().(*net.TCPAddr).Port

	_, err = relay.Listen(port, 1)
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))
}

func (s *ListenTestSuite) TestInvalidInput() {
	_, err := relay.Listen(0, 10)
	s.True(errors.IsInvalidArgument(err))

	_, err = relay.Listen(3000, 0)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ListenTestSuite) TestServeStopsWithContext() {
	lis, err := relay.Listen(relay.DefaultPort, 50)
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- relay.Serve(ctx, lis, relay.NewHub(nil))
	}()

	cancel()
	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(testTimeout):
		s.Fail("relay did not stop")
	}
}
