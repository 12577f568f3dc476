package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	chamberMocks "github.com/pkalinn/revolver/internal/chamber/mocks"
	clockMocks "github.com/pkalinn/revolver/internal/common/clock/mocks"
	uuidMocks "github.com/pkalinn/revolver/internal/common/uuid/mocks"
	gameRepo "github.com/pkalinn/revolver/internal/repositories/game"
)

type APITestSuite struct {
	suite.Suite
	mockCtrl    *gomock.Controller
	mockClock   *clockMocks.MockClock
	mockSpinner *chamberMocks.MockSpinner
	mockUUID    *uuidMocks.MockUUID
	mr          *miniredis.Miniredis
	client      *redis.Client
	router      *gin.Engine

	now time.Time
	seq int
}

func (s *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockSpinner = chamberMocks.NewMockSpinner(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)

	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.seq = 0

	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time {
		return s.now
	}).AnyTimes()
	// Lethal slot 0 makes the first shot of every game a hit.
	s.mockSpinner.EXPECT().LethalSlot().Return(0).AnyTimes()
	s.mockSpinner.EXPECT().FirstTurn(2).Return(0).AnyTimes()
	s.mockUUID.EXPECT().NewUUID().DoAndReturn(func() string {
		s.seq++
		return fmt.Sprintf("%09d-0000-0000-0000-000000000000", s.seq)
	}).AnyTimes()

	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.client = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	repo, err := gameRepo.NewRedis(&gameRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)

	handler, err := New(&Config{
		Repo:          repo,
		Clock:         s.mockClock,
		Spinner:       s.mockSpinner,
		UUIDGenerator: s.mockUUID,
		TurnTimeout:   10 * time.Second,
	})
	s.Require().NoError(err)

	s.router = gin.New()
	handler.Register(s.router.Group("/api"))
}

func (s *APITestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
	s.mockCtrl.Finish()
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

// do performs a request against the router and decodes the JSON body.
func (s *APITestSuite) do(method, path string, payload interface{}) (int, map[string]interface{}) {
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		s.Require().NoError(err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec.Code, decoded
}

func (s *APITestSuite) createGame(name string) (gameID, playerID string) {
	code, body := s.do(http.MethodPost, "/api/games", gin.H{"playerName": name})
	s.Require().Equal(http.StatusCreated, code)
	s.Require().Equal("success", body["status"])

	data := body["data"].(map[string]interface{})
	return data["gameId"].(string), data["playerId"].(string)
}

func (s *APITestSuite) joinGame(gameID, name string) (playerID string) {
	code, body := s.do(http.MethodPost, "/api/games/"+gameID+"/join", gin.H{"playerName": name})
	s.Require().Equal(http.StatusOK, code)

	data := body["data"].(map[string]interface{})
	return data["playerId"].(string)
}

func (s *APITestSuite) TestCreateGame() {
	gameID, playerID := s.createGame("alice")
	s.NotEmpty(gameID)
	s.NotEmpty(playerID)

	code, body := s.do(http.MethodGet, "/api/games/"+gameID, nil)
	s.Equal(http.StatusOK, code)

	state := body["data"].(map[string]interface{})["state"].(map[string]interface{})
	s.Equal(false, state["gameStarted"])
	s.Len(state["players"].([]interface{}), 1)
}

func (s *APITestSuite) TestCreateGameMissingName() {
	code, body := s.do(http.MethodPost, "/api/games", gin.H{})
	s.Equal(http.StatusBadRequest, code)
	s.Equal("error", body["status"])
}

func (s *APITestSuite) TestCreateGameDuplicateName() {
	s.createGame("alice")

	code, body := s.do(http.MethodPost, "/api/games", gin.H{"playerName": "alice"})
	s.Equal(http.StatusConflict, code)
	s.Contains(body["error"], "already")
}

func (s *APITestSuite) TestListGames() {
	gameID, _ := s.createGame("alice")

	code, body := s.do(http.MethodGet, "/api/games", nil)
	s.Require().Equal(http.StatusOK, code)

	games := body["data"].(map[string]interface{})["games"].([]interface{})
	s.Require().Len(games, 1)
	s.Equal(gameID, games[0].(map[string]interface{})["gameId"])
}

func (s *APITestSuite) TestGetGameNotFound() {
	code, body := s.do(http.MethodGet, "/api/games/missing", nil)
	s.Equal(http.StatusNotFound, code)
	s.Equal("error", body["status"])
}

func (s *APITestSuite) TestJoinStartsGame() {
	gameID, _ := s.createGame("alice")
	s.joinGame(gameID, "bob")

	code, body := s.do(http.MethodGet, "/api/games/"+gameID, nil)
	s.Require().Equal(http.StatusOK, code)

	state := body["data"].(map[string]interface{})["state"].(map[string]interface{})
	s.Equal(true, state["gameStarted"])
	s.Equal("alice", state["currentPlayerName"])
}

func (s *APITestSuite) TestJoinFullGame() {
	gameID, _ := s.createGame("alice")
	s.joinGame(gameID, "bob")

	code, body := s.do(http.MethodPost, "/api/games/"+gameID+"/join", gin.H{"playerName": "carol"})
	s.Equal(http.StatusConflict, code)
	s.Equal("error", body["status"])
}

func (s *APITestSuite) TestShootResolvesKill() {
	gameID, aliceID := s.createGame("alice")
	bobID := s.joinGame(gameID, "bob")

	// Lethal slot is 0, so alice's first shot at bob hits.
	code, body := s.do(http.MethodPost, "/api/games/"+gameID+"/shoot", gin.H{
		"playerId": aliceID,
		"targetId": bobID,
	})
	s.Require().Equal(http.StatusOK, code)

	data := body["data"].(map[string]interface{})
	result := data["result"].(map[string]interface{})
	s.Equal(true, result["hit"])
	s.Equal(true, result["gameOver"])
	s.Equal(bobID, result["killed"])
	s.Equal("alice", result["winnerName"])

	state := data["state"].(map[string]interface{})
	s.Equal(true, state["gameOver"])
}

func (s *APITestSuite) TestShootInvalidTarget() {
	gameID, aliceID := s.createGame("alice")
	s.joinGame(gameID, "bob")

	code, body := s.do(http.MethodPost, "/api/games/"+gameID+"/shoot", gin.H{
		"playerId": aliceID,
		"targetId": "nobody",
	})
	s.Equal(http.StatusBadRequest, code)
	s.Equal("error", body["status"])
}

func (s *APITestSuite) TestLeaveBeforeStartDeletesEmptyGame() {
	gameID, _ := s.createGame("alice")

	code, body := s.do(http.MethodPost, "/api/games/"+gameID+"/leave", gin.H{"playerName": "alice"})
	s.Require().Equal(http.StatusOK, code)
	s.Equal("success", body["status"])

	code, _ = s.do(http.MethodGet, "/api/games/"+gameID, nil)
	s.Equal(http.StatusNotFound, code)

	// The name is free again.
	code, _ = s.do(http.MethodPost, "/api/games", gin.H{"playerName": "alice"})
	s.Equal(http.StatusCreated, code)
}

func (s *APITestSuite) TestLeaveDuringGameEliminates() {
	gameID, _ := s.createGame("alice")
	s.joinGame(gameID, "bob")

	code, body := s.do(http.MethodPost, "/api/games/"+gameID+"/leave", gin.H{"playerName": "bob"})
	s.Require().Equal(http.StatusOK, code)

	data := body["data"].(map[string]interface{})
	result := data["result"].(map[string]interface{})
	s.Equal(true, result["gameOver"])
	s.Equal("alice", result["winnerName"])

	state := data["state"].(map[string]interface{})
	s.Equal(true, state["gameOver"])
}
