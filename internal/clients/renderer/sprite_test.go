package renderer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/gabrielblins/pokemon-agent-system/internal/clients/renderer"
	"github.com/gabrielblins/pokemon-agent-system/internal/entities"
	"github.com/gabrielblins/pokemon-agent-system/internal/errors"
	"github.com/gabrielblins/pokemon-agent-system/internal/pkg/idgen"
	"github.com/gabrielblins/pokemon-agent-system/internal/testutils"
)

type SpriteRendererTestSuite struct {
	suite.Suite
	renderer *renderer.SpriteRenderer
	ctx      context.Context
}

func (s *SpriteRendererTestSuite) SetupTest() {
	s.ctx = context.Background()

	r, err := renderer.NewSprite(&renderer.SpriteConfig{
		IDGenerator: idgen.NewSequential("viz"),
	})
	s.Require().NoError(err)
	s.renderer = r
}

func (s *SpriteRendererTestSuite) input() *renderer.RenderInput {
	a := testutils.Pikachu()
	b := testutils.Bulbasaur()
	return &renderer.RenderInput{
		PokemonA: a,
		PokemonB: b,
		Verdict: &entities.BattleVerdict{
			Winner: "pikachu",
			NameA:  "pikachu",
			NameB:  "bulbasaur",
			ScoreA: 74.55,
			ScoreB: 70.35,
			Factors: []entities.Factor{
				{Kind: entities.FactorSpeedEdge, Description: "Pikachu is faster and would attack first", Contribution: 10.5},
			},
		},
	}
}

func (s *SpriteRendererTestSuite) TestRender() {
	ref, err := s.renderer.Render(s.ctx, s.input())
	s.Require().NoError(err)

	s.NotEmpty(ref.ID)
	s.Equal(renderer.ArtifactKindSpriteBattle, ref.Kind)

	s.Require().Len(ref.Sprites, 2)
	s.Equal("pikachu", ref.Sprites[0].Name)
	s.NotEmpty(ref.Sprites[0].URL)
	s.Equal("bulbasaur", ref.Sprites[1].Name)

	s.Require().NotEmpty(ref.Frames)
	s.Equal("Pikachu vs Bulbasaur!", ref.Frames[0])
	s.Equal("Pikachu wins!", ref.Frames[len(ref.Frames)-1])
	s.Contains(ref.Frames, "Pikachu is faster and would attack first")
}

func (s *SpriteRendererTestSuite) TestRenderShinyFallsBackWhenMissing() {
	in := s.input()
	in.UseShiny = true
	in.PokemonA.ShinyURL = ""

	ref, err := s.renderer.Render(s.ctx, in)
	s.Require().NoError(err)
	s.Equal(in.PokemonA.SpriteURL, ref.Sprites[0].URL)
}

func (s *SpriteRendererTestSuite) TestRenderShinyUsesShinyURL() {
	in := s.input()
	in.UseShiny = true
	in.PokemonA.ShinyURL = "https://example.com/shiny/pikachu.png"

	ref, err := s.renderer.Render(s.ctx, in)
	s.Require().NoError(err)
	s.Equal("https://example.com/shiny/pikachu.png", ref.Sprites[0].URL)
}

func (s *SpriteRendererTestSuite) TestRenderFailsWithoutSprites() {
	in := s.input()
	in.PokemonB.SpriteURL = ""
	in.PokemonB.ShinyURL = ""

	_, err := s.renderer.Render(s.ctx, in)
	s.Require().Error(err)
	s.Contains(err.Error(), "bulbasaur")
}

func (s *SpriteRendererTestSuite) TestRenderRequiresBothRecords() {
	in := s.input()
	in.PokemonB = nil

	_, err := s.renderer.Render(s.ctx, in)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *SpriteRendererTestSuite) TestRenderRequiresVerdict() {
	in := s.input()
	in.Verdict = nil

	_, err := s.renderer.Render(s.ctx, in)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func TestSpriteRendererSuite(t *testing.T) {
	suite.Run(t, new(SpriteRendererTestSuite))
}
