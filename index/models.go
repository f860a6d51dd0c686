package index

import "time"

type collectionModel struct {
	Name      string `gorm:"primaryKey"`
	CreatedAt time.Time
}

func (collectionModel) TableName() string { return "collections" }

type documentModel struct {
	Collection string            `gorm:"primaryKey"`
	ID         string            `gorm:"primaryKey"`
	Body       string            `gorm:"type:text"`
	Metadata   map[string]string `gorm:"serializer:json"`
	Embedding  []float32         `gorm:"serializer:json"`
	UpdatedAt  time.Time
}

func (documentModel) TableName() string { return "documents" }

func (m documentModel) toDocument() Document {
	return Document{ID: m.ID, Body: m.Body, Metadata: m.Metadata}
}
