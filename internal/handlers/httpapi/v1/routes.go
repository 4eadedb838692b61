package v1

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gabrielblins/pokemon-agent-system/internal/clients/renderer"
	"github.com/gabrielblins/pokemon-agent-system/internal/engine"
	"github.com/gabrielblins/pokemon-agent-system/internal/entities"
	"github.com/gabrielblins/pokemon-agent-system/internal/errors"
	"github.com/gabrielblins/pokemon-agent-system/internal/orchestrators/supervisor"
	"github.com/gabrielblins/pokemon-agent-system/internal/pokedex"
)

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	// "GET /" also matches unknown paths; only the root is the health check.
	if r.URL.Path != "/" {
		h.writeError(w, r, errors.NotFoundf("no route for %s", r.URL.Path))
		return
	}
	h.writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Service: "pokemon-agent-system",
	})
}

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	RunID    string `json:"run_id"`
	Answer   string `json:"answer"`
	Degraded bool   `json:"degraded,omitempty"`
	Turns    int    `json:"turns"`
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errors.WrapWithCode(err, errors.CodeInvalidArgument,
			"request body must be JSON with a question field"))
		return
	}
	if req.Question == "" {
		h.writeError(w, r, errors.InvalidArgument("question is required"))
		return
	}

	out, err := h.supervisor.Run(r.Context(), &supervisor.RunInput{Query: req.Question})
	if err != nil {
		// An aborted run can still carry a best-effort answer.
		if out != nil && out.Answer != "" {
			h.writeJSON(w, http.StatusOK, chatResponse{
				RunID:    out.RunID,
				Answer:   out.Answer,
				Degraded: true,
				Turns:    out.TurnCount,
			})
			return
		}
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, chatResponse{
		RunID:    out.RunID,
		Answer:   out.Answer,
		Degraded: out.Degraded,
		Turns:    out.TurnCount,
	})
}

type battleResponse struct {
	Winner    string            `json:"winner"`
	ScoreA    float64           `json:"score_a"`
	ScoreB    float64           `json:"score_b"`
	Reasoning string            `json:"reasoning"`
	Factors   []entities.Factor `json:"factors"`
}

func (h *Handler) battle(w http.ResponseWriter, r *http.Request) {
	a, b, err := h.fetchCombatants(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	verdict := engine.Resolve(a, b)
	h.writeJSON(w, http.StatusOK, battleResponse{
		Winner:    verdict.Winner,
		ScoreA:    verdict.ScoreA,
		ScoreB:    verdict.ScoreB,
		Reasoning: verdict.Reasoning(),
		Factors:   verdict.Factors,
	})
}

type visualizeResponse struct {
	Winner        string                `json:"winner"`
	Reasoning     string                `json:"reasoning"`
	Visualization *renderer.ArtifactRef `json:"visualization"`
}

func (h *Handler) battleVisualize(w http.ResponseWriter, r *http.Request) {
	a, b, err := h.fetchCombatants(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	useShiny := false
	if raw := r.URL.Query().Get("use_shiny"); raw != "" {
		useShiny, err = strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, r, errors.InvalidArgument("use_shiny must be a boolean"))
			return
		}
	}

	verdict := engine.Resolve(a, b)
	ref, err := h.renderer.Render(r.Context(), &renderer.RenderInput{
		PokemonA: a,
		PokemonB: b,
		Verdict:  verdict,
		UseShiny: useShiny,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, visualizeResponse{
		Winner:        verdict.Winner,
		Reasoning:     verdict.Reasoning(),
		Visualization: ref,
	})
}

func (h *Handler) fetchCombatants(r *http.Request) (*entities.Pokemon, *entities.Pokemon, error) {
	query := r.URL.Query()
	nameA := entities.NormalizeName(query.Get("pokemon1"))
	nameB := entities.NormalizeName(query.Get("pokemon2"))

	vb := errors.NewValidationBuilder()
	if nameA == "" {
		vb.RequiredField("pokemon1")
	}
	if nameB == "" {
		vb.RequiredField("pokemon2")
	}
	if nameA != "" && nameA == nameB {
		vb.InvalidField("pokemon2", "must differ from pokemon1")
	}
	if err := vb.Build(); err != nil {
		return nil, nil, err
	}

	outA, err := h.pokedex.Fetch(r.Context(), &pokedex.FetchInput{Name: nameA})
	if err != nil {
		return nil, nil, err
	}
	outB, err := h.pokedex.Fetch(r.Context(), &pokedex.FetchInput{Name: nameB})
	if err != nil {
		return nil, nil, err
	}
	return outA.Record, outB.Record, nil
}
