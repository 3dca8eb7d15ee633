package db

import (
	"database/sql"
	"fmt"
	"log"
	"strconv"

	"github.com/chanchalmahajan01/GKT/internal/config"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func InitDB(cfg *config.Config) *sql.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	log.Println("Database connection established")
	return db
}

func InitRedis(cfg *config.Config) *redis.Client {
	dbNum, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		dbNum = 0
	}

	return redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   dbNum,
	})
}
