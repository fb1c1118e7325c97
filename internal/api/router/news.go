package router

import (
	"net/http"

	"github.com/DjordjeVuckovic/news-board/internal/newsapi"
	"github.com/DjordjeVuckovic/news-board/internal/query"
	"github.com/labstack/echo/v4"
)

type NewsRouter struct {
	g        *echo.Group
	searcher newsapi.Searcher
}

func NewNewsRouter(g *echo.Group, searcher newsapi.Searcher) *NewsRouter {
	return &NewsRouter{g: g, searcher: searcher}
}

func (r *NewsRouter) Bind() {
	r.g.GET("/news", r.news)
	r.g.GET("/top-headlines", r.topHeadlines)
}

// news godoc
// @Summary Search articles
// @Description Searches the article source; falls back to top headlines when no filter is given. Answers are cached.
// @Tags news
// @Produce json
// @Security ApiKeyAuth
// @Param q query string false "Keywords"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param sources query string false "Comma separated source ids"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} newsapi.Result
// @Failure 502 {object} map[string]string
// @Router /api/news [get]
func (r *NewsRouter) news(c echo.Context) error {
	params := query.FromValues(c.QueryParams())
	params.Country = ""

	res, err := r.searcher.Search(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// topHeadlines godoc
// @Summary Top headlines
// @Tags news
// @Produce json
// @Security ApiKeyAuth
// @Param country query string false "Country code" default(us)
// @Success 200 {object} newsapi.Result
// @Router /api/top-headlines [get]
func (r *NewsRouter) topHeadlines(c echo.Context) error {
	params := query.Params{Country: c.QueryParam("country")}

	res, err := r.searcher.Search(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
