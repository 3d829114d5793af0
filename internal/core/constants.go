package core

// Capability tag constants
const (
	CapTextGeneration   = "text_generation"
	CapConversation     = "conversation"
	CapAnalysis         = "analysis"
	CapComplexReasoning = "complex_reasoning"
	CapWebSearch        = "web_search"
	CapCoding           = "coding"
	CapMultilingual     = "multilingual"
	CapVision           = "vision"
	CapImageAnalysis    = "image_analysis"
	CapDetailedAnalysis = "detailed_analysis"
	CapFastInference    = "fast_inference"
	CapOpenEnded        = "open_ended"
	CapCreativeWriting  = "creative_writing"
	CapLogicalReasoning = "logical_reasoning"
	CapUncensored       = "uncensored"
	CapRoleplay         = "roleplay"
)

// Task type constants
const (
	TaskGeneralChat     = "general_chat"
	TaskWebSearch       = "web_search"
	TaskCodeGeneration  = "code_generation"
	TaskImageAnalysis   = "image_analysis"
	TaskComplexAnalysis = "complex_analysis"
	TaskCreativeWriting = "creative_writing"
	TaskFastResponse    = "fast_response"
)

// Selection and scoring constants
const (
	// NeutralPerformanceScore is the score a model starts with before
	// any observations exist for it.
	NeutralPerformanceScore = 1.0

	// ScoreWindowSize is the number of most recent observations per model
	// the ledger reads when recomputing a score.
	ScoreWindowSize = 20

	// ScoreSuccessWeight scales the success rate into the 0-10 range.
	ScoreSuccessWeight = 10.0

	// ScoreLatencyDamping keeps the latency divisor away from zero.
	ScoreLatencyDamping = 1.0

	// Context-length bias: larger tiers get a multiplier on long inputs.
	ContextFactorLargeTier     = 1.2
	ContextFactorMediumTier    = 1.1
	ContextThresholdLargeTier  = 2000
	ContextThresholdMediumTier = 1000

	// Recency decay: linear over RecencyDecayHours, floored at RecencyFloor.
	RecencyDecayHours = 24.0
	RecencyFloor      = 0.5
)

// Generation constants
const (
	// LoadProbePrompt is the trivial prompt used to force the backend to
	// materialize a model in memory.
	LoadProbePrompt = "Hello"

	// ContextPromptFormat joins caller context and prompt into one payload.
	ContextPromptFormat = "Context: %s\n\nQuestion: %s"
)
