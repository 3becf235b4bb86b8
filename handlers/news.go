package handlers

import (
	"context"
	"fmt"
	"strings"

	"stock-portfolio/cache"
	"stock-portfolio/models"

	"github.com/gin-gonic/gin"
)

const (
	defaultNewsLimit      = 20
	defaultStockNewsLimit = 10
	maxNewsLimit          = 100
)

type NewsStore interface {
	Latest(ctx context.Context, limit int) ([]models.News, error)
	BySymbol(ctx context.Context, symbol string, limit int) ([]models.News, error)
}

func (h *Handler) GetLatestNews(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.fail(c, badRequest(err, "limit must be a positive integer"), "Failed to fetch news")
		return
	}
	limit := orDefault(q.Limit, defaultNewsLimit, maxNewsLimit)

	ctx := c.Request.Context()
	news, err := cache.Fetch(ctx, h.cache, h.log, fmt.Sprintf("news:latest:%d", limit), h.cacheTTL, func() ([]models.News, error) {
		return h.news.Latest(ctx, limit)
	})
	if err != nil {
		h.fail(c, err, "Failed to fetch news")
		return
	}
	ok(c, nonNil(news))
}

// GetNewsByStock lists articles that name the symbol in their symbol list.
func (h *Handler) GetNewsByStock(c *gin.Context) {
	var uri symbolURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.fail(c, badRequest(err, "Invalid stock symbol"), "Failed to fetch stock news")
		return
	}
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.fail(c, badRequest(err, "limit must be a positive integer"), "Failed to fetch stock news")
		return
	}
	symbol := strings.ToUpper(uri.Symbol)
	limit := orDefault(q.Limit, defaultStockNewsLimit, maxNewsLimit)

	ctx := c.Request.Context()
	key := fmt.Sprintf("news:symbol:%s:%d", symbol, limit)
	news, err := cache.Fetch(ctx, h.cache, h.log, key, h.cacheTTL, func() ([]models.News, error) {
		return h.news.BySymbol(ctx, symbol, limit)
	})
	if err != nil {
		h.fail(c, err, "Failed to fetch stock news")
		return
	}
	ok(c, nonNil(news))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
