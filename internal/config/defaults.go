package config

import "ollamarouter/internal/core"

// DefaultCapabilityTable returns the built-in model capability table.
// Order matters: the selector's capability scan walks it top to bottom.
// Tiers track the parameter-count suffix in the name: 70b variants are
// XL, 34b Large, 13b Medium, everything else Small so the context bias
// only fires for genuinely bigger variants.
func DefaultCapabilityTable() []core.CapabilityEntry {
	return []core.CapabilityEntry{
		// Text generation models
		{Name: "llama3", Capabilities: []string{core.CapTextGeneration, core.CapConversation, core.CapAnalysis}, SizeTier: core.TierSmall},
		{Name: "llama3:8b", Capabilities: []string{core.CapTextGeneration, core.CapConversation, core.CapAnalysis}, SizeTier: core.TierSmall},
		{Name: "llama3:70b", Capabilities: []string{core.CapTextGeneration, core.CapConversation, core.CapAnalysis, core.CapComplexReasoning}, SizeTier: core.TierXL},
		{Name: "llama2", Capabilities: []string{core.CapTextGeneration, core.CapConversation}, SizeTier: core.TierSmall},
		{Name: "llama2:13b", Capabilities: []string{core.CapTextGeneration, core.CapConversation, core.CapAnalysis}, SizeTier: core.TierMedium},
		{Name: "llama2:70b", Capabilities: []string{core.CapTextGeneration, core.CapConversation, core.CapAnalysis, core.CapComplexReasoning}, SizeTier: core.TierXL},

		// Instruction-tuned models
		{Name: "phi3", Capabilities: []string{core.CapTextGeneration, core.CapConversation, core.CapWebSearch, core.CapAnalysis}, SizeTier: core.TierSmall},
		{Name: "phi3:3.8b", Capabilities: []string{core.CapTextGeneration, core.CapConversation, core.CapWebSearch, core.CapAnalysis}, SizeTier: core.TierSmall},
		{Name: "mistral", Capabilities: []string{core.CapTextGeneration, core.CapConversation, core.CapAnalysis, core.CapCoding}, SizeTier: core.TierSmall},
		{Name: "mixtral", Capabilities: []string{core.CapTextGeneration, core.CapConversation, core.CapAnalysis, core.CapCoding, core.CapMultilingual}, SizeTier: core.TierSmall},

		// Coding models
		{Name: "codellama", Capabilities: []string{core.CapCoding, core.CapTextGeneration, core.CapAnalysis}, SizeTier: core.TierSmall},
		{Name: "codellama:13b", Capabilities: []string{core.CapCoding, core.CapTextGeneration, core.CapAnalysis}, SizeTier: core.TierMedium},
		{Name: "codellama:34b", Capabilities: []string{core.CapCoding, core.CapTextGeneration, core.CapAnalysis, core.CapComplexReasoning}, SizeTier: core.TierLarge},

		// Vision models
		{Name: "llava", Capabilities: []string{core.CapVision, core.CapTextGeneration, core.CapImageAnalysis}, SizeTier: core.TierSmall},
		{Name: "llava:7b", Capabilities: []string{core.CapVision, core.CapTextGeneration, core.CapImageAnalysis}, SizeTier: core.TierSmall},
		{Name: "llava:13b", Capabilities: []string{core.CapVision, core.CapTextGeneration, core.CapImageAnalysis, core.CapDetailedAnalysis}, SizeTier: core.TierMedium},
		{Name: "bakllava", Capabilities: []string{core.CapVision, core.CapTextGeneration, core.CapImageAnalysis}, SizeTier: core.TierSmall},
		{Name: "moondream", Capabilities: []string{core.CapVision, core.CapTextGeneration, core.CapImageAnalysis, core.CapFastInference}, SizeTier: core.TierSmall},

		// Specialized models
		{Name: "orca-mini", Capabilities: []string{core.CapTextGeneration, core.CapConversation, core.CapFastInference}, SizeTier: core.TierSmall},
		{Name: "vicuna", Capabilities: []string{core.CapTextGeneration, core.CapConversation, core.CapOpenEnded}, SizeTier: core.TierSmall},
		{Name: "wizard-vicuna", Capabilities: []string{core.CapTextGeneration, core.CapConversation, core.CapCreativeWriting}, SizeTier: core.TierSmall},
		{Name: "nous-hermes", Capabilities: []string{core.CapTextGeneration, core.CapConversation, core.CapAnalysis, core.CapLogicalReasoning}, SizeTier: core.TierSmall},
		{Name: "openchat", Capabilities: []string{core.CapTextGeneration, core.CapConversation, core.CapUncensored}, SizeTier: core.TierSmall},
		{Name: "dolphin-mistral", Capabilities: []string{core.CapTextGeneration, core.CapConversation, core.CapUncensored, core.CapRoleplay}, SizeTier: core.TierSmall},
	}
}

// DefaultTaskDefinitions returns the built-in task registry.
func DefaultTaskDefinitions() []core.TaskDefinition {
	return []core.TaskDefinition{
		{
			Name:                 core.TaskGeneralChat,
			Description:          "General conversation and Q&A",
			RequiredCapabilities: []string{core.CapTextGeneration, core.CapConversation},
			PreferredModels:      []string{"llama3", "mistral", "phi3"},
			FallbackModels:       []string{"llama2", "orca-mini"},
		},
		{
			Name:                 core.TaskWebSearch,
			Description:          "Web search and information retrieval",
			RequiredCapabilities: []string{core.CapWebSearch, core.CapAnalysis},
			PreferredModels:      []string{"phi3", "mistral", "llama3"},
			FallbackModels:       []string{"llama2", "nous-hermes"},
		},
		{
			Name:                 core.TaskCodeGeneration,
			Description:          "Code writing and programming tasks",
			RequiredCapabilities: []string{core.CapCoding, core.CapTextGeneration},
			PreferredModels:      []string{"codellama", "mistral", "llama3"},
			FallbackModels:       []string{"llama2", "phi3"},
		},
		{
			Name:                 core.TaskImageAnalysis,
			Description:          "Image understanding and analysis",
			RequiredCapabilities: []string{core.CapVision, core.CapImageAnalysis},
			PreferredModels:      []string{"llava", "bakllava", "moondream"},
			FallbackModels:       []string{"llava:7b"},
		},
		{
			Name:                 core.TaskComplexAnalysis,
			Description:          "Complex reasoning and analysis tasks",
			RequiredCapabilities: []string{core.CapComplexReasoning, core.CapAnalysis},
			PreferredModels:      []string{"llama3:70b", "codellama:34b", "mixtral"},
			FallbackModels:       []string{"llama3", "mistral", "phi3"},
		},
		{
			Name:                 core.TaskCreativeWriting,
			Description:          "Creative writing and content generation",
			RequiredCapabilities: []string{core.CapTextGeneration, core.CapCreativeWriting},
			PreferredModels:      []string{"wizard-vicuna", "llama2", "mistral"},
			FallbackModels:       []string{"llama3", "phi3"},
		},
		{
			Name:                 core.TaskFastResponse,
			Description:          "Quick responses and simple tasks",
			RequiredCapabilities: []string{core.CapFastInference, core.CapTextGeneration},
			PreferredModels:      []string{"moondream", "orca-mini", "phi3"},
			FallbackModels:       []string{"llama3", "mistral"},
		},
	}
}

// DefaultModelChain returns the built-in global fallback order. The head
// doubles as the ultimate fallback when nothing at all is loaded.
func DefaultModelChain() []string {
	return []string{"llama3", "mistral", "phi3", "llama2", "orca-mini"}
}
