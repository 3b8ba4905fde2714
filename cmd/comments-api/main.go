package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/Angelito-Alit/comments-api/internal/clock"
	"github.com/Angelito-Alit/comments-api/internal/comment"
	"github.com/Angelito-Alit/comments-api/internal/config"
	"github.com/Angelito-Alit/comments-api/internal/demo"
	"github.com/Angelito-Alit/comments-api/internal/health"
	"github.com/Angelito-Alit/comments-api/internal/observability"
	"github.com/Angelito-Alit/comments-api/internal/ratelimit"
	"github.com/Angelito-Alit/comments-api/internal/server"
	"github.com/Angelito-Alit/comments-api/internal/weather"
)

func main() {
	app := fx.New(
		config.Module,
		clock.Module,
		observability.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		comment.Module,
		ratelimit.Module,
		weather.Module,
		demo.Module,
		health.Module,
		server.Module,
	)
	app.Run()
}
