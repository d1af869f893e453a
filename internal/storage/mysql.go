package storage

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/starford/scrivener/internal/models"
)

// renderingRow is the gorm model for the renderings table.
type renderingRow struct {
	ID       uint      `gorm:"primaryKey"`
	Name     string    `gorm:"size:191;index"`
	Body     string    `gorm:"type:longtext"`
	Checksum string    `gorm:"size:64"`
	Size     int
	SavedAt  time.Time `gorm:"index"`
}

func (renderingRow) TableName() string { return "renderings" }

// MySQL appends every save to a MySQL table through gorm.
type MySQL struct {
	db   *gorm.DB
	name string
}

// OpenMySQL connects to dsn and migrates the renderings table.
func OpenMySQL(dsn string) (*MySQL, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("storage: open mysql: %w", err)
	}
	return NewGorm(db)
}

// NewGorm wraps an existing gorm connection and migrates the renderings table.
func NewGorm(db *gorm.DB) (*MySQL, error) {
	if err := db.AutoMigrate(&renderingRow{}); err != nil {
		return nil, fmt.Errorf("storage: migrate renderings: %w", err)
	}
	return &MySQL{db: db, name: DefaultName}, nil
}

// Scope returns a view recording saves under name.
func (m *MySQL) Scope(name string) Storage {
	return &MySQL{db: m.db, name: name}
}

// Save inserts a row for data.
func (m *MySQL) Save(data string) error {
	r := models.NewRendering(m.name, data, time.Now().UTC())
	row := renderingRow{
		Name:     r.Name,
		Body:     r.Body,
		Checksum: r.Checksum,
		Size:     r.Size,
		SavedAt:  r.SavedAt,
	}
	if err := m.db.Create(&row).Error; err != nil {
		return fmt.Errorf("storage: insert rendering: %w", err)
	}
	return nil
}

// Latest returns the most recent rendering saved under name.
func (m *MySQL) Latest(name string) (*models.Rendering, error) {
	var row renderingRow
	if err := m.db.Where("name = ?", name).Order("id DESC").First(&row).Error; err != nil {
		return nil, fmt.Errorf("storage: latest rendering: %w", err)
	}
	return &models.Rendering{
		Name:     row.Name,
		Body:     row.Body,
		Checksum: row.Checksum,
		Size:     row.Size,
		SavedAt:  row.SavedAt,
	}, nil
}

// Close closes the pooled connection. Scoped views share it.
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
