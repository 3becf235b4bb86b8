package handlers

import (
	"net/http"
	"time"

	"stock-portfolio/cache"
	"stock-portfolio/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Deps are the collaborators a Handler serves requests with. Cache may be
// nil, in which case reads always go to the store.
type Deps struct {
	Stocks    StockStore
	Watchlist WatchlistStore
	News      NewsStore
	Portfolio PortfolioReader
	Trader    Trader
	Cache     cache.Cache
	CacheTTL  time.Duration
	Log       logrus.FieldLogger
}

type Handler struct {
	stocks    StockStore
	watchlist WatchlistStore
	news      NewsStore
	portfolio PortfolioReader
	trader    Trader
	cache     cache.Cache
	cacheTTL  time.Duration
	log       logrus.FieldLogger
	now       func() time.Time
}

func New(d Deps) *Handler {
	h := &Handler{
		stocks:    d.Stocks,
		watchlist: d.Watchlist,
		news:      d.News,
		portfolio: d.Portfolio,
		trader:    d.Trader,
		cache:     d.Cache,
		cacheTTL:  d.CacheTTL,
		log:       d.Log,
		now:       time.Now,
	}
	if h.cache == nil {
		h.cache = cache.Nop{}
	}
	if h.log == nil {
		h.log = logrus.StandardLogger()
	}
	h.log = h.log.WithField("component", "http")
	return h
}

// SetupRouter wires every route. Everything under /api except the health
// check requires a user, resolved by middleware.Identity.
func SetupRouter(h *Handler, jwtSecret string) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(h.log))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		h.log.WithField("panic", recovered).Error("handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, response{Success: false, Message: "Something went wrong!"})
	}))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Server is running",
			"timestamp": h.now().UTC().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")
	api.Use(middleware.Identity(jwtSecret))
	{
		stocks := api.Group("/stocks")
		stocks.GET("", h.GetStocks)
		stocks.GET("/:id", h.GetStock)
		stocks.GET("/:id/history", h.GetPriceHistory)
		stocks.GET("/symbol/:symbol", h.GetStockBySymbol)

		portfolio := api.Group("/portfolio")
		portfolio.GET("", h.GetPortfolio)
		portfolio.GET("/holdings", h.GetHoldings)
		portfolio.GET("/transactions", h.GetTransactions)
		portfolio.POST("/buy", h.BuyStock)
		portfolio.POST("/sell", h.SellStock)

		watchlist := api.Group("/watchlist")
		watchlist.GET("", h.GetWatchlist)
		watchlist.POST("", h.AddToWatchlist)
		watchlist.DELETE("/:stockId", h.RemoveFromWatchlist)

		news := api.Group("/news")
		news.GET("", h.GetLatestNews)
		news.GET("/stock/:symbol", h.GetNewsByStock)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response{Success: false, Message: "Route not found"})
	})
	return router
}
