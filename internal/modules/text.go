package modules

// ModuleText is a plain text note. It publishes nothing and consumes nothing.
const ModuleText = "text"

type TextState struct {
	Content  string  `json:"content"`
	FontSize float64 `json:"fontSize"`
}

func textDefinition() moduleEntry {
	def := baseDefinition(ModuleText, "Text", 240, 140)
	jsonState(&def, func() TextState {
		return TextState{FontSize: 14}
	})
	return moduleEntry{Definition: def}
}
