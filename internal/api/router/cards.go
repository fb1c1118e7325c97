package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-board/internal/apperr"
	"github.com/DjordjeVuckovic/news-board/internal/assistant"
	"github.com/DjordjeVuckovic/news-board/internal/classify"
	"github.com/DjordjeVuckovic/news-board/internal/dedup"
	"github.com/DjordjeVuckovic/news-board/internal/domain"
	"github.com/DjordjeVuckovic/news-board/internal/workspace"
	"github.com/DjordjeVuckovic/news-board/pkg/pagination"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CardsRouter struct {
	g        *echo.Group
	registry *workspace.Registry
	pipeline *assistant.Pipeline
}

func NewCardsRouter(g *echo.Group, registry *workspace.Registry, pipeline *assistant.Pipeline) *CardsRouter {
	return &CardsRouter{g: g, registry: registry, pipeline: pipeline}
}

func (r *CardsRouter) Bind() {
	r.g.GET("/cards", r.list)
	r.g.POST("/cards", r.create)
	r.g.POST("/cards/latest", r.latest)
	r.g.PATCH("/cards/:id", r.update)
	r.g.POST("/cards/:id/pin", r.pin)
	r.g.DELETE("/cards/:id", r.remove)
}

// list godoc
// @Summary List cards
// @Tags cards
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} pagination.OffsetResult[domain.Card]
// @Router /api/cards [get]
func (r *CardsRouter) list(c echo.Context) error {
	var req pagination.OffsetRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid pagination", err)
	}
	req.Normalize()

	ws, err := currentWorkspace(c, r.registry)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pagination.Paginate(ws.Cards().List(), req))
}

// create godoc
// @Summary Add a card
// @Description Adds a card unless it has no articles or repeats an existing card
// @Tags cards
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param card body domain.Card true "Card"
// @Success 201 {object} domain.Card
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/cards [post]
func (r *CardsRouter) create(c echo.Context) error {
	var card domain.Card
	if err := c.Bind(&card); err != nil {
		return apperr.NewValidationWrap("invalid card", err)
	}

	if strings.TrimSpace(card.ID) == "" {
		card.ID = uuid.NewString()
	}
	if card.Timestamp.IsZero() {
		card.Timestamp = time.Now().UTC()
	}
	if card.Category == "" {
		card.Category = classify.Text(card.Title + " " + card.OriginalQuery)
	}
	card.Articles = classify.Stamp(card.Articles)

	ws, err := currentWorkspace(c, r.registry)
	if err != nil {
		return err
	}

	if err := ws.Cards().AddUnique(card, dedup.IsDuplicate); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, card)
}

// latest godoc
// @Summary Load latest news
// @Description Adds a "Latest News" card with current top headlines when the board is empty
// @Tags cards
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} domain.Card
// @Success 204
// @Router /api/cards/latest [post]
func (r *CardsRouter) latest(c echo.Context) error {
	ws, err := currentWorkspace(c, r.registry)
	if err != nil {
		return err
	}

	card, err := r.pipeline.LoadLatest(c.Request().Context(), ws)
	if err != nil {
		return err
	}
	if card == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusCreated, card)
}

// update godoc
// @Summary Update a card
// @Tags cards
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Card id"
// @Param patch body domain.CardPatch true "Fields to change"
// @Success 200 {object} domain.Card
// @Failure 404 {object} map[string]string
// @Router /api/cards/{id} [patch]
func (r *CardsRouter) update(c echo.Context) error {
	var patch domain.CardPatch
	if err := c.Bind(&patch); err != nil {
		return apperr.NewValidationWrap("invalid patch", err)
	}

	ws, err := currentWorkspace(c, r.registry)
	if err != nil {
		return err
	}

	updated, ok := ws.Cards().Update(c.Param("id"), patch)
	if !ok {
		return apperr.ErrNotFound
	}
	return c.JSON(http.StatusOK, updated)
}

// pin godoc
// @Summary Pin a card
// @Description Moves the card to the front of the board
// @Tags cards
// @Security ApiKeyAuth
// @Param id path string true "Card id"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/cards/{id}/pin [post]
func (r *CardsRouter) pin(c echo.Context) error {
	ws, err := currentWorkspace(c, r.registry)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if _, ok := ws.Cards().Get(id); !ok {
		return apperr.ErrNotFound
	}
	ws.Cards().Pin(id)
	return c.NoContent(http.StatusNoContent)
}

// remove godoc
// @Summary Remove a card
// @Tags cards
// @Security ApiKeyAuth
// @Param id path string true "Card id"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/cards/{id} [delete]
func (r *CardsRouter) remove(c echo.Context) error {
	ws, err := currentWorkspace(c, r.registry)
	if err != nil {
		return err
	}

	if !ws.Cards().Remove(c.Param("id")) {
		return apperr.ErrNotFound
	}
	return c.NoContent(http.StatusNoContent)
}
