package deck

// Depth is the technical depth of the source description.
type Depth string

const (
	DepthLow    Depth = "low"
	DepthMedium Depth = "medium"
	DepthHigh   Depth = "high"
)

// Tone is the register the description is written in.
type Tone string

const (
	ToneGeneral   Tone = "general"
	ToneExecutive Tone = "executive"
	ToneTechnical Tone = "technical"
	ToneCasual    Tone = "casual"
)

type Audience string

const (
	AudienceMixed     Audience = "mixed"
	AudienceTechnical Audience = "technical"
	AudienceExecutive Audience = "executive"
)

type ContentType string

const (
	ContentGeneral       ContentType = "general"
	ContentFeatureLaunch ContentType = "feature_launch"
	ContentTechnical     ContentType = "technical"
	ContentBusiness      ContentType = "business"
	ContentTutorial      ContentType = "tutorial"
	ContentVision        ContentType = "vision"
)

// Signals are the classification results the Analyzer attaches to an outline.
type Signals struct {
	Topic       string      `json:"topic"`
	Depth       Depth       `json:"depth"`
	Tone        Tone        `json:"tone"`
	Audience    Audience    `json:"audience"`
	ContentType ContentType `json:"content_type"`
	HasCode     bool        `json:"has_code"`
}

// Normalize replaces unknown enum values with their neutral defaults.
func (s Signals) Normalize() Signals {
	switch s.Depth {
	case DepthLow, DepthMedium, DepthHigh:
	default:
		s.Depth = DepthLow
	}
	switch s.Tone {
	case ToneGeneral, ToneExecutive, ToneTechnical, ToneCasual:
	default:
		s.Tone = ToneGeneral
	}
	switch s.Audience {
	case AudienceMixed, AudienceTechnical, AudienceExecutive:
	default:
		s.Audience = AudienceMixed
	}
	switch s.ContentType {
	case ContentGeneral, ContentFeatureLaunch, ContentTechnical, ContentBusiness, ContentTutorial, ContentVision:
	default:
		s.ContentType = ContentGeneral
	}
	return s
}
