package capabilities_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/gabrielblins/pokemon-agent-system/internal/capabilities"
	"github.com/gabrielblins/pokemon-agent-system/internal/clients/renderer"
	"github.com/gabrielblins/pokemon-agent-system/internal/conversation"
	"github.com/gabrielblins/pokemon-agent-system/internal/engine"
	"github.com/gabrielblins/pokemon-agent-system/internal/entities"
	"github.com/gabrielblins/pokemon-agent-system/internal/errors"
	"github.com/gabrielblins/pokemon-agent-system/internal/testutils"
)

// stubRenderer records its input and returns a canned artifact or error.
type stubRenderer struct {
	lastInput *renderer.RenderInput
	err       error
}

func (r *stubRenderer) Render(_ context.Context, input *renderer.RenderInput) (*renderer.ArtifactRef, error) {
	r.lastInput = input
	if r.err != nil {
		return nil, r.err
	}
	return &renderer.ArtifactRef{
		ID:     "viz-1",
		Kind:   renderer.ArtifactKindSpriteBattle,
		Frames: []string{"Pikachu vs Bulbasaur!", "Pikachu wins!"},
	}, nil
}

type VisualizeTestSuite struct {
	suite.Suite
	renderer *stubRenderer
	handler  *capabilities.Visualize
	state    *conversation.State
	ctx      context.Context
}

func (s *VisualizeTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.renderer = &stubRenderer{}
	s.state = conversation.NewState("run-1", "show me pikachu vs bulbasaur")

	h, err := capabilities.NewVisualize(&capabilities.VisualizeConfig{Renderer: s.renderer})
	s.Require().NoError(err)
	s.handler = h
}

func (s *VisualizeTestSuite) withBattleArtifacts() {
	a := testutils.Pikachu()
	b := testutils.Bulbasaur()
	s.state.MergeArtifacts(map[conversation.ArtifactKey]any{
		conversation.ArtifactRecords: map[string]*entities.Pokemon{
			a.Name: a,
			b.Name: b,
		},
		conversation.ArtifactVerdict: engine.Resolve(a, b),
	})
}

func (s *VisualizeTestSuite) TestRendersBattle() {
	s.withBattleArtifacts()

	result, err := s.handler.Handle(s.ctx, s.state, "render the battle")
	s.Require().NoError(err)
	s.False(result.IsTerminal())

	ref, ok := result.Artifacts()[conversation.ArtifactVisualization].(*renderer.ArtifactRef)
	s.Require().True(ok)
	s.Equal("viz-1", ref.ID)
	s.False(s.renderer.lastInput.UseShiny)
}

func (s *VisualizeTestSuite) TestShinyRequestPassesThrough() {
	s.withBattleArtifacts()

	_, err := s.handler.Handle(s.ctx, s.state, "render the battle with shiny sprites")
	s.Require().NoError(err)
	s.True(s.renderer.lastInput.UseShiny)
}

func (s *VisualizeTestSuite) TestMissingVerdictIsMissingPrerequisite() {
	result, err := s.handler.Handle(s.ctx, s.state, "render the battle")
	s.Require().NoError(err)

	reason, ok := result.Artifacts()[conversation.ArtifactMissingData].(string)
	s.Require().True(ok)
	s.Contains(reason, "expert must run first")
}

func (s *VisualizeTestSuite) TestMissingRecordsIsMissingPrerequisite() {
	a := testutils.Pikachu()
	b := testutils.Bulbasaur()
	s.state.MergeArtifacts(map[conversation.ArtifactKey]any{
		conversation.ArtifactVerdict: engine.Resolve(a, b),
	})

	result, err := s.handler.Handle(s.ctx, s.state, "render the battle")
	s.Require().NoError(err)
	s.Contains(result.Artifacts(), conversation.ArtifactMissingData)
}

func (s *VisualizeTestSuite) TestRenderFailureIsRecoverable() {
	s.withBattleArtifacts()
	s.renderer.err = errors.Internal("no sprite available for pikachu")

	result, err := s.handler.Handle(s.ctx, s.state, "render the battle")
	s.Require().NoError(err, "a render failure must not fail the turn")
	s.False(result.IsTerminal())

	reason, ok := result.Artifacts()[conversation.ArtifactRenderFailure].(string)
	s.Require().True(ok)
	s.Contains(reason, "rendering failed")
	s.NotContains(result.Artifacts(), conversation.ArtifactVisualization)
}

func TestVisualizeSuite(t *testing.T) {
	suite.Run(t, new(VisualizeTestSuite))
}
