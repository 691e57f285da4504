package expert

// Definition is the static configuration of one domain expert. Created
// once at startup and shared read-only by the router and orchestrator.
type Definition struct {
	Identifier  string // stable key used in routing decisions
	DisplayName string // Korean name shown in prompts (e.g. "작물 전문가")
	Persona     string // one-line domain description for rewrite/routing prompts
	Collection  string // bound passage collection
}

// DefaultDefinitions returns the built-in agriculture, recipe and
// nutrition experts.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Identifier:  "farmer",
			DisplayName: "작물 전문가",
			Persona:     "작물 추천, 재배 환경, 성장 조건 등 농업 기술에 대한 모든 것을 다룹니다.",
			Collection:  "farmer",
		},
		{
			Identifier:  "recipe",
			DisplayName: "레시피 전문가",
			Persona:     "다양한 식재료를 활용한 요리 방법, 레시피, 조리 팁을 다룹니다.",
			Collection:  "receipe",
		},
		{
			Identifier:  "nutrient",
			DisplayName: "영양 전문가",
			Persona:     "식품의 영양 성분, 칼로리, GI 지수, 건강 효능을 다룹니다.",
			Collection:  "nutrient",
		},
	}
}
