package main

import (
	"github.com/gasttonvargas/facturador-bar/internal/infra"

	"github.com/redis/go-redis/v9"
)

// conectarRedis returns a nil client when url is empty.
func conectarRedis(url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	return infra.NewRedis(url)
}
