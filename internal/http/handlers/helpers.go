package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/http/middleware"
)

func viewerFrom(c *gin.Context) *domain.User {
	return c.MustGet(middleware.ViewerKey).(*domain.User)
}

func assertionFrom(c *gin.Context) *domain.BadgeAssertion {
	return c.MustGet(middleware.AssertionKey).(*domain.BadgeAssertion)
}

func badgeFrom(c *gin.Context) *domain.Badge {
	return c.MustGet(middleware.BadgeKey).(*domain.Badge)
}

func profileFrom(c *gin.Context) *domain.User {
	return c.MustGet(middleware.ProfileUserKey).(*domain.User)
}

// pageQuery reads pageNum and pageSize; non-numeric values come back zero and
// fail service-side validation.
func pageQuery(c *gin.Context) domain.Page {
	pageNum, _ := strconv.Atoi(c.Query("pageNum"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	return domain.Page{PageNum: pageNum, PageSize: pageSize}
}

func orderQuery(c *gin.Context) domain.Order {
	return domain.Order(c.DefaultQuery("order", string(domain.OrderDesc)))
}

func boolQuery(c *gin.Context, key string) bool {
	v, _ := strconv.ParseBool(c.Query(key))
	return v
}
