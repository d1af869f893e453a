package storage

import (
	"path/filepath"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"fs ok", Config{Driver: DriverFS, FS: FSConfig{Root: "./out"}}, false},
		{"fs missing root", Config{Driver: DriverFS}, true},
		{"console", Config{Driver: DriverConsole}, false},
		{"memory", Config{Driver: DriverMemory}, false},
		{"sqlite missing path", Config{Driver: DriverSQLite}, true},
		{"redis ok", Config{Driver: DriverRedis, Redis: RedisConfig{Addr: "localhost:6379"}}, false},
		{"redis negative history", Config{Driver: DriverRedis, Redis: RedisConfig{Addr: "x", History: -1}}, true},
		{"mysql missing dsn", Config{Driver: DriverMySQL}, true},
		{"kafka missing topic", Config{Driver: DriverKafka, Kafka: KafkaConfig{Brokers: []string{"b:9092"}}}, true},
		{"unknown driver", Config{Driver: "tape"}, true},
		{"empty driver", Config{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestOpenFSCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "out")
	s, closer, err := Open(Config{Driver: DriverFS, FS: FSConfig{Root: root}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closer.Close()
	if err := s.Save("hi"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.(*FS).Read(DefaultName)
	if err != nil || string(got) != "hi" {
		t.Errorf("Read = %q, %v", got, err)
	}
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "renders.db")
	s, closer, err := Open(Config{Driver: DriverSQLite, SQLite: SQLiteConfig{Path: path}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closer.Close()
	if _, ok := s.(Scoper); !ok {
		t.Error("sqlite backend should support scoping")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, _, err := Open(Config{Driver: "tape"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}
