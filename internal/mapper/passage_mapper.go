package mapper

import (
	"encoding/json"

	"ai-agrichat-be/internal/entity"
	"ai-agrichat-be/internal/model"

	"gorm.io/datatypes"
)

type PassageMapper struct{}

func NewPassageMapper() *PassageMapper {
	return &PassageMapper{}
}

func (m *PassageMapper) ToEntity(p *model.Passage) *entity.Passage {
	if p == nil {
		return nil
	}

	var metadata map[string]interface{}
	if len(p.Metadata) > 0 {
		_ = json.Unmarshal(p.Metadata, &metadata)
	}

	return &entity.Passage{
		Id:         p.Id,
		Collection: p.Collection,
		Text:       p.Text,
		Source:     p.Source,
		Page:       p.Page,
		Metadata:   metadata,
		CreatedAt:  p.CreatedAt,
	}
}

// ToModel maps an entity to its persistence model. The embedding vector
// is attached separately by the caller since entities never carry raw
// vectors.
func (m *PassageMapper) ToModel(p *entity.Passage) *model.Passage {
	if p == nil {
		return nil
	}

	var metadata datatypes.JSON
	if p.Metadata != nil {
		if raw, err := json.Marshal(p.Metadata); err == nil {
			metadata = raw
		}
	}

	return &model.Passage{
		Id:         p.Id,
		Collection: p.Collection,
		Text:       p.Text,
		Source:     p.Source,
		Page:       p.Page,
		Metadata:   metadata,
		CreatedAt:  p.CreatedAt,
	}
}
