package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	chamberMocks "github.com/pkalinn/revolver/internal/chamber/mocks"
	clockMocks "github.com/pkalinn/revolver/internal/common/clock/mocks"
	uuidMocks "github.com/pkalinn/revolver/internal/common/uuid/mocks"
)

type fakeSink struct {
	sent []interface{}
}

func (f *fakeSink) Send(v interface{}) error {
	f.sent = append(f.sent, v)
	return nil
}

type DirectoryTestSuite struct {
	suite.Suite
	mockCtrl  *gomock.Controller
	mockClock *clockMocks.MockClock
	directory *Directory

	now time.Time
}

func (s *DirectoryTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)

	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time {
		return s.now
	}).AnyTimes()

	directory, err := NewDirectory(s.mockClock)
	s.Require().NoError(err)
	s.directory = directory
}

func (s *DirectoryTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestDirectoryTestSuite(t *testing.T) {
	suite.Run(t, new(DirectoryTestSuite))
}

func (s *DirectoryTestSuite) TestBindAndLookup() {
	sink := &fakeSink{}
	s.directory.Bind("alice", "game-1", "p-alice", sink)

	b, ok := s.directory.Lookup("alice")
	s.Require().True(ok)
	s.Equal("game-1", b.GameID)
	s.Equal("p-alice", b.PlayerID)
	s.Equal(Sink(sink), b.Conn)
	s.Equal(s.now, b.LastActive)

	_, ok = s.directory.Lookup("bob")
	s.False(ok)
}

func (s *DirectoryTestSuite) TestBindReplacesExisting() {
	old := &fakeSink{}
	s.directory.Bind("alice", "game-1", "p-alice", old)

	fresh := &fakeSink{}
	s.directory.Bind("alice", "game-2", "p-alice-2", fresh)

	b, ok := s.directory.Lookup("alice")
	s.Require().True(ok)
	s.Equal("game-2", b.GameID)
	s.Equal("p-alice-2", b.PlayerID)
	s.Equal(Sink(fresh), b.Conn)
}

func (s *DirectoryTestSuite) TestRebindKeepsGame() {
	old := &fakeSink{}
	s.directory.Bind("alice", "game-1", "p-alice", old)

	s.now = s.now.Add(30 * time.Second)
	fresh := &fakeSink{}
	s.Require().True(s.directory.Rebind("alice", fresh))

	b, _ := s.directory.Lookup("alice")
	s.Equal("game-1", b.GameID)
	s.Equal("p-alice", b.PlayerID)
	s.Equal(Sink(fresh), b.Conn)
	s.Equal(s.now, b.LastActive)

	s.False(s.directory.Rebind("bob", fresh))
}

func (s *DirectoryTestSuite) TestUnbind() {
	s.directory.Bind("alice", "game-1", "p-alice", &fakeSink{})
	s.directory.Unbind("alice")

	_, ok := s.directory.Lookup("alice")
	s.False(ok)
}

func (s *DirectoryTestSuite) TestTouchRefreshesLastActive() {
	s.directory.Bind("alice", "game-1", "p-alice", &fakeSink{})

	s.now = s.now.Add(5 * time.Minute)
	s.directory.Touch("alice")

	b, _ := s.directory.Lookup("alice")
	s.Equal(s.now, b.LastActive)
}

func (s *DirectoryTestSuite) TestIsNameActive() {
	mockSpinner := chamberMocks.NewMockSpinner(s.mockCtrl)
	mockSpinner.EXPECT().LethalSlot().Return(0).AnyTimes()
	mockSpinner.EXPECT().FirstTurn(2).Return(0).AnyTimes()
	mockUUID := uuidMocks.NewMockUUID(s.mockCtrl)
	mockUUID.EXPECT().NewUUID().Return("aaaaaaaa-0000-0000-0000-000000000000").AnyTimes()

	registry, err := NewRegistry(&RegistryConfig{
		Session: &Config{
			Clock:   s.mockClock,
			Spinner: mockSpinner,
		},
		UUIDGenerator: mockUUID,
	})
	s.Require().NoError(err)

	s.False(s.directory.IsNameActive("alice", registry))

	sess, err := registry.Create("alice")
	s.Require().NoError(err)
	s.Require().NoError(sess.AddPlayer("p-alice", "alice"))
	s.True(s.directory.IsNameActive("alice", registry))

	s.Require().NoError(sess.AddPlayer("p-bob", "bob"))
	s.Require().NotNil(sess.HandleDisconnect("bob"))
	s.False(s.directory.IsNameActive("alice", registry))
}

func (s *DirectoryTestSuite) TestSweepStale() {
	s.directory.Bind("alice", "game-1", "p-alice", &fakeSink{})

	s.now = s.now.Add(45 * time.Minute)
	s.directory.Bind("bob", "game-2", "p-bob", &fakeSink{})

	s.now = s.now.Add(30 * time.Minute)
	s.Equal(1, s.directory.SweepStale(time.Hour))

	_, ok := s.directory.Lookup("alice")
	s.False(ok)
	_, ok = s.directory.Lookup("bob")
	s.True(ok)
}
