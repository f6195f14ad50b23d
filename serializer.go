package wpblock

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// BlockDTO is the interchange shape of a block.
type BlockDTO struct {
	Parent     *string        `json:"parent" yaml:"parent"`
	ID         string         `json:"id" yaml:"id"`
	Name       string         `json:"name" yaml:"name"`
	Content    string         `json:"content" yaml:"content"`
	Attributes map[string]any `json:"attributes" yaml:"attributes"`
	Children   []BlockDTO     `json:"children" yaml:"children"`
}

// NewBlockDTO captures b and its subtree.
func NewBlockDTO(b *Block) BlockDTO {
	dto := BlockDTO{
		ID:         b.id,
		Name:       b.name,
		Content:    b.content,
		Attributes: b.attributes.Map(),
		Children:   make([]BlockDTO, 0, len(b.children)),
	}
	if b.parent != nil {
		parent := b.parent.id
		dto.Parent = &parent
	}
	for _, c := range b.children {
		dto.Children = append(dto.Children, NewBlockDTO(c))
	}
	return dto
}

// Block rebuilds a detached block tree from the DTO, keeping its ids.
func (d BlockDTO) Block() *Block {
	b := newBlockWithID(d.ID, d.Name, d.Content, NewAttributes(d.Attributes))
	for _, c := range d.Children {
		b.Append(c.Block())
	}
	return b
}

// ToJSON serializes b and its subtree as indented JSON.
func ToJSON(b *Block) (string, error) {
	out, err := json.MarshalIndent(NewBlockDTO(b), "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize json: %w", err)
	}
	return string(out), nil
}

// FromJSON decodes a document produced by ToJSON.
func FromJSON(data string) (*BlockDTO, error) {
	var dto BlockDTO
	if err := json.Unmarshal([]byte(data), &dto); err != nil {
		return nil, fmt.Errorf("deserialize json: %w", err)
	}
	return &dto, nil
}

// ToYAML serializes b and its subtree as YAML.
func ToYAML(b *Block) (string, error) {
	out, err := yaml.Marshal(NewBlockDTO(b))
	if err != nil {
		return "", fmt.Errorf("serialize yaml: %w", err)
	}
	return string(out), nil
}

// FromYAML decodes a document produced by ToYAML.
func FromYAML(data string) (*BlockDTO, error) {
	var dto BlockDTO
	if err := yaml.Unmarshal([]byte(data), &dto); err != nil {
		return nil, fmt.Errorf("deserialize yaml: %w", err)
	}
	return &dto, nil
}
