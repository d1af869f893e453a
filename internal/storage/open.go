package storage

import (
	"fmt"
	"io"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	redis "github.com/redis/go-redis/v9"
)

// Storage drivers.
const (
	DriverFS      = "fs"
	DriverConsole = "console"
	DriverMemory  = "memory"
	DriverSQLite  = "sqlite"
	DriverRedis   = "redis"
	DriverMySQL   = "mysql"
	DriverKafka   = "kafka"
)

// Config selects and configures a storage backend.
type Config struct {
	Driver string       `yaml:"driver" toml:"driver"`
	FS     FSConfig     `yaml:"fs" toml:"fs"`
	SQLite SQLiteConfig `yaml:"sqlite" toml:"sqlite"`
	Redis  RedisConfig  `yaml:"redis" toml:"redis"`
	MySQL  MySQLConfig  `yaml:"mysql" toml:"mysql"`
	Kafka  KafkaConfig  `yaml:"kafka" toml:"kafka"`
}

// FSConfig holds the output directory for the fs driver.
type FSConfig struct {
	Root string `yaml:"root" toml:"root"`
}

// SQLiteConfig holds the database path for the sqlite driver.
type SQLiteConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// RedisConfig holds connection settings for the redis driver.
type RedisConfig struct {
	Addr           string `yaml:"addr" toml:"addr"`
	Password       string `yaml:"password" toml:"password"`
	DB             int    `yaml:"db" toml:"db"`
	Prefix         string `yaml:"prefix" toml:"prefix"`
	History        int    `yaml:"history" toml:"history"`
	TimeoutSeconds int    `yaml:"timeout_seconds" toml:"timeout_seconds"`
}

// MySQLConfig holds the DSN for the mysql driver.
type MySQLConfig struct {
	DSN string `yaml:"dsn" toml:"dsn"`
}

// KafkaConfig holds producer settings for the kafka driver.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers" toml:"brokers"`
	Topic   string   `yaml:"topic" toml:"topic"`
}

// Validate validates the storage configuration for the selected driver.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required,
			validation.In(DriverFS, DriverConsole, DriverMemory, DriverSQLite, DriverRedis, DriverMySQL, DriverKafka)),
	); err != nil {
		return err
	}
	switch c.Driver {
	case DriverFS:
		return validation.ValidateStruct(&c.FS, validation.Field(&c.FS.Root, validation.Required))
	case DriverSQLite:
		return validation.ValidateStruct(&c.SQLite, validation.Field(&c.SQLite.Path, validation.Required))
	case DriverRedis:
		return validation.ValidateStruct(&c.Redis,
			validation.Field(&c.Redis.Addr, validation.Required),
			validation.Field(&c.Redis.History, validation.Min(0)),
			validation.Field(&c.Redis.TimeoutSeconds, validation.Min(0)),
		)
	case DriverMySQL:
		return validation.ValidateStruct(&c.MySQL, validation.Field(&c.MySQL.DSN, validation.Required))
	case DriverKafka:
		return validation.ValidateStruct(&c.Kafka,
			validation.Field(&c.Kafka.Brokers, validation.Required),
			validation.Field(&c.Kafka.Topic, validation.Required),
		)
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the backend selected by cfg. The returned Closer releases
// connections held by the backend and all of its scopes.
func Open(cfg Config) (Storage, io.Closer, error) {
	switch cfg.Driver {
	case DriverFS:
		if err := os.MkdirAll(cfg.FS.Root, 0o755); err != nil {
			return nil, nil, fmt.Errorf("storage: create output dir: %w", err)
		}
		s, err := NewFS(cfg.FS.Root)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	case DriverConsole:
		return NewWriter(os.Stdout), nopCloser{}, nil
	case DriverMemory:
		return NewMemory(), nopCloser{}, nil
	case DriverSQLite:
		s, err := OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s := NewRedis(rdb, cfg.Redis.Prefix, cfg.Redis.History, time.Duration(cfg.Redis.TimeoutSeconds)*time.Second)
		return s, s, nil
	case DriverMySQL:
		s, err := OpenMySQL(cfg.MySQL.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case DriverKafka:
		s, err := DialKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
	return nil, nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
}
