package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("server",
	fx.Provide(
		NewServer,
		NewEngine,
	),
	fx.Invoke(func(s *Server, engine *gin.Engine) {
		s.RegisterRoutes(engine)
	}),
	fx.Invoke(RunHTTP),
)
