package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Angelito-Alit/comments-api/internal/validation"
)

// Weather validates the city path parameter before any upstream call is made.
func (s *Server) Weather(c *gin.Context) {
	city, err := validation.CityName(c.Param("city"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	observation, err := s.weather.Lookup(c.Request.Context(), city)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, observation)
}

func (s *Server) APIDemo(c *gin.Context) {
	sample, err := s.demo.FetchSample(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "External API data retrieved successfully",
		"api_response": sample,
		"source":       s.demo.Source(),
	})
}
