package themes

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Prompt is a question with its sphere colour.
type Prompt struct {
	Question string `json:"question" yaml:"question"`
	Color    string `json:"color" yaml:"color"`
}

// Catalog is the source material for theme generation.
type Catalog struct {
	Opener        Prompt   `json:"opener" yaml:"opener"`
	Closer        Prompt   `json:"closer" yaml:"closer"`
	Fun           []Prompt `json:"fun" yaml:"fun"`
	Frustrating   []Prompt `json:"frustrating" yaml:"frustrating"`
	Contemplative []Prompt `json:"contemplative" yaml:"contemplative"`
}

func (c Catalog) withFallback(defaults Catalog) Catalog {
	if c.Opener.Question == "" {
		c.Opener = defaults.Opener
	}
	if c.Closer.Question == "" {
		c.Closer = defaults.Closer
	}
	if len(c.Fun) == 0 {
		c.Fun = defaults.Fun
	}
	if len(c.Frustrating) == 0 {
		c.Frustrating = defaults.Frustrating
	}
	if len(c.Contemplative) == 0 {
		c.Contemplative = defaults.Contemplative
	}
	return c
}

// LoadCatalog reads a YAML catalog. Sections missing from the file keep the
// default prompts.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read theme catalog: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse theme catalog %s: %w", path, err)
	}

	return catalog.withFallback(DefaultCatalog()), nil
}

// DefaultCatalog returns the exhibit's built-in prompts.
func DefaultCatalog() Catalog {
	return Catalog{
		Opener: Prompt{Question: "오늘 가장 기억에 남는 순간은 언제인가요?", Color: "#ff4b6b"},
		Closer: Prompt{Question: "전시 중 가장 인상 깊었던 것은?", Color: "#4ade80"},
		Fun: []Prompt{
			{Question: "최근에 큰 소리로 웃은 순간이 있나요?", Color: "#FF7B7B"},
			{Question: "친구와 함께한 즐거운 추억을 들려주세요", Color: "#FF9B6A"},
			{Question: "예상치 못한 즐거운 일이 있었나요?", Color: "#FFB55F"},
			{Question: "최근 가장 맛있게 먹은 음식은 무엇인가요?", Color: "#FFCC59"},
			{Question: "우연히 발견한 재미있는 것이 있나요?", Color: "#FFB86F"},
			{Question: "최근 본 영화나 드라마 중 재미있었던 장면은?", Color: "#FFA76F"},
			{Question: "갑자기 웃음이 났던 순간이 있나요?", Color: "#FF8E8E"},
			{Question: "친구와 나눈 재미있는 대화가 있나요?", Color: "#FFAA7B"},
			{Question: "최근에 받은 예상치 못한 선물이 있나요?", Color: "#FF9D6E"},
			{Question: "길거리에서 마주친 재미있는 장면이 있나요?", Color: "#FFB57B"},
		},
		Frustrating: []Prompt{
			{Question: "최근에 가장 답답했던 순간은 언제인가요?", Color: "#7B7BFF"},
			{Question: "누군가에게 하지 못한 말이 있나요?", Color: "#6A9BFF"},
			{Question: "시간이 부족하다고 느낀 순간이 있나요?", Color: "#5FB5FF"},
			{Question: "최근에 실수한 것 중 아쉬운 게 있나요?", Color: "#59CCFF"},
			{Question: "다시 한번 기회가 있다면 하고 싶은 말은?", Color: "#6FB8FF"},
			{Question: "오늘 하루 중 가장 힘들었던 순간은?", Color: "#6FA7FF"},
			{Question: "최근에 포기한 것이 있다면?", Color: "#8E8EFF"},
			{Question: "지금 해결하고 싶은 고민이 있나요?", Color: "#7BAAFF"},
			{Question: "누군가에게 사과하고 싶은 마음이 있나요?", Color: "#6E9DFF"},
			{Question: "스스로에게 화가 났던 순간이 있나요?", Color: "#7BB5FF"},
		},
		Contemplative: []Prompt{
			{Question: "요즘 자주 떠오르는 생각이 있나요?", Color: "#7BFF7B"},
			{Question: "혼자만의 시간에 무엇을 하시나요?", Color: "#6AFF9B"},
			{Question: "변화하고 싶은 자신의 모습이 있나요?", Color: "#5FFFB5"},
			{Question: "최근에 새롭게 시작한 것이 있나요?", Color: "#59FFCC"},
			{Question: "자신의 어떤 모습이 가장 마음에 드나요?", Color: "#6FFFB8"},
			{Question: "스스로에게 해주고 싶은 칭찬은?", Color: "#6FFFA7"},
			{Question: "요즘 가장 집중하고 있는 것은 무엇인가요?", Color: "#8EFF8E"},
			{Question: "미래의 자신에게 하고 싶은 말이 있나요?", Color: "#7BFFAA"},
			{Question: "최근에 깨달은 것이 있다면?", Color: "#6EFF9D"},
			{Question: "나에게 가장 소중한 가치는 무엇인가요?", Color: "#7BFFB5"},
		},
	}
}
