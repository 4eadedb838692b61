package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/gabrielblins/pokemon-agent-system/internal/clients/renderer"
	"github.com/gabrielblins/pokemon-agent-system/internal/entities"
	"github.com/gabrielblins/pokemon-agent-system/internal/errors"
	v1 "github.com/gabrielblins/pokemon-agent-system/internal/handlers/httpapi/v1"
	"github.com/gabrielblins/pokemon-agent-system/internal/orchestrators/supervisor"
	"github.com/gabrielblins/pokemon-agent-system/internal/pokedex"
	"github.com/gabrielblins/pokemon-agent-system/internal/testutils"
)

// stubSupervisor returns a canned run output or error.
type stubSupervisor struct {
	out       *supervisor.RunOutput
	err       error
	lastQuery string
}

func (s *stubSupervisor) Run(_ context.Context, input *supervisor.RunInput) (*supervisor.RunOutput, error) {
	s.lastQuery = input.Query
	return s.out, s.err
}

// stubPokedex serves the standard fixtures.
type stubPokedex struct {
	records map[string]*entities.Pokemon
}

func newStubPokedex() *stubPokedex {
	p := testutils.Pikachu()
	b := testutils.Bulbasaur()
	return &stubPokedex{records: map[string]*entities.Pokemon{p.Name: p, b.Name: b}}
}

func (s *stubPokedex) Fetch(_ context.Context, input *pokedex.FetchInput) (*pokedex.FetchOutput, error) {
	record, ok := s.records[entities.NormalizeName(input.Name)]
	if !ok {
		return nil, errors.NotFoundf("pokemon not recognized: %s", input.Name)
	}
	return &pokedex.FetchOutput{Record: record}, nil
}

func (s *stubPokedex) Invalidate(context.Context, *pokedex.InvalidateInput) error {
	return nil
}

type stubRenderer struct {
	err error
}

func (r *stubRenderer) Render(_ context.Context, input *renderer.RenderInput) (*renderer.ArtifactRef, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &renderer.ArtifactRef{
		ID:   "viz-1",
		Kind: renderer.ArtifactKindSpriteBattle,
		Sprites: []renderer.Sprite{
			{Name: input.PokemonA.Name, URL: input.PokemonA.SpriteURL},
			{Name: input.PokemonB.Name, URL: input.PokemonB.SpriteURL},
		},
	}, nil
}

type HandlerTestSuite struct {
	suite.Suite
	supervisor *stubSupervisor
	renderer   *stubRenderer
	mux        *http.ServeMux
}

func (s *HandlerTestSuite) SetupTest() {
	s.supervisor = &stubSupervisor{}
	s.renderer = &stubRenderer{}

	handler, err := v1.New(&v1.Config{
		Supervisor: s.supervisor,
		Pokedex:    newStubPokedex(),
		Renderer:   s.renderer,
	})
	s.Require().NoError(err)

	s.mux = http.NewServeMux()
	handler.Register(s.mux)
}

func (s *HandlerTestSuite) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerTestSuite) decode(rec *httptest.ResponseRecorder, target any) {
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(target))
}

func (s *HandlerTestSuite) TestHealth() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	s.Equal(http.StatusOK, rec.Code)

	var body map[string]string
	s.decode(rec, &body)
	s.Equal("ok", body["status"])
}

func (s *HandlerTestSuite) TestUnknownRouteIs404() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerTestSuite) TestChat() {
	s.supervisor.out = &supervisor.RunOutput{
		RunID:     "run-1",
		Answer:    "Pikachu wins thanks to its speed.",
		TurnCount: 2,
	}

	body := bytes.NewBufferString(`{"question": "who wins, pikachu or bulbasaur?"}`)
	rec := s.do(httptest.NewRequest(http.MethodPost, "/chat", body))
	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		RunID  string `json:"run_id"`
		Answer string `json:"answer"`
		Turns  int    `json:"turns"`
	}
	s.decode(rec, &resp)
	s.Equal("run-1", resp.RunID)
	s.Equal("Pikachu wins thanks to its speed.", resp.Answer)
	s.Equal(2, resp.Turns)
	s.Equal("who wins, pikachu or bulbasaur?", s.supervisor.lastQuery)
}

func (s *HandlerTestSuite) TestChatMissingQuestionIs400() {
	body := bytes.NewBufferString(`{}`)
	rec := s.do(httptest.NewRequest(http.MethodPost, "/chat", body))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestChatMalformedBodyIs400() {
	body := bytes.NewBufferString(`not json`)
	rec := s.do(httptest.NewRequest(http.MethodPost, "/chat", body))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestChatAbortedRunWithAnswerStillSucceeds() {
	s.supervisor.out = &supervisor.RunOutput{
		RunID:     "run-1",
		Answer:    "Based on the analysis so far, pikachu would win.",
		Degraded:  true,
		TurnCount: 5,
	}
	s.supervisor.err = errors.DeadlineExceeded("run deadline exceeded")

	body := bytes.NewBufferString(`{"question": "who wins?"}`)
	rec := s.do(httptest.NewRequest(http.MethodPost, "/chat", body))
	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		Answer   string `json:"answer"`
		Degraded bool   `json:"degraded"`
	}
	s.decode(rec, &resp)
	s.True(resp.Degraded)
	s.Contains(resp.Answer, "pikachu")
}

func (s *HandlerTestSuite) TestChatAbortedRunWithoutAnswerMapsCode() {
	s.supervisor.out = nil
	s.supervisor.err = errors.Unavailable("oracle unavailable after 3 attempts")

	body := bytes.NewBufferString(`{"question": "who wins?"}`)
	rec := s.do(httptest.NewRequest(http.MethodPost, "/chat", body))
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}

func (s *HandlerTestSuite) TestBattle() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/battle?pokemon1=pikachu&pokemon2=bulbasaur", nil))
	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		Winner    string  `json:"winner"`
		ScoreA    float64 `json:"score_a"`
		ScoreB    float64 `json:"score_b"`
		Reasoning string  `json:"reasoning"`
	}
	s.decode(rec, &resp)
	s.Equal("pikachu", resp.Winner)
	s.Greater(resp.ScoreA, resp.ScoreB)
	s.NotEmpty(resp.Reasoning)
}

func (s *HandlerTestSuite) TestBattleMissingParamIs400() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/battle?pokemon1=pikachu", nil))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestBattleSameNameIs400() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/battle?pokemon1=pikachu&pokemon2=Pikachu", nil))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestBattleUnknownNameIs404() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/battle?pokemon1=pikachu&pokemon2=missingno123", nil))
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerTestSuite) TestBattleVisualize() {
	rec := s.do(httptest.NewRequest(http.MethodGet,
		"/battle/visualize?pokemon1=pikachu&pokemon2=bulbasaur&use_shiny=true", nil))
	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		Winner        string                `json:"winner"`
		Visualization *renderer.ArtifactRef `json:"visualization"`
	}
	s.decode(rec, &resp)
	s.Equal("pikachu", resp.Winner)
	s.Require().NotNil(resp.Visualization)
	s.Equal("viz-1", resp.Visualization.ID)
}

func (s *HandlerTestSuite) TestBattleVisualizeBadShinyFlagIs400() {
	rec := s.do(httptest.NewRequest(http.MethodGet,
		"/battle/visualize?pokemon1=pikachu&pokemon2=bulbasaur&use_shiny=maybe", nil))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestBattleVisualizeRenderFailureIs500() {
	s.renderer.err = errors.Internal("no sprite available for pikachu")

	rec := s.do(httptest.NewRequest(http.MethodGet,
		"/battle/visualize?pokemon1=pikachu&pokemon2=bulbasaur", nil))
	s.Equal(http.StatusInternalServerError, rec.Code)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
