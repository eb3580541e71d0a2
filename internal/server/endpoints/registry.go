package endpoints

import (
	"time"

	"github.com/jackzampolin/presence/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	// Now names export downloads; nil means time.Now.
	Now func() time.Time
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Session endpoints
		&CreateSessionEndpoint{},
		&ListSessionsEndpoint{},
		&GetSessionEndpoint{},
		&DeleteSessionEndpoint{},
		&GetProfileEndpoint{},
		&UpdateProfileEndpoint{},

		// Generation endpoints
		&GenerateEndpoint{},
		&StrategyEndpoint{},
		&OptimizeEndpoint{},
		&WordEndpoint{},

		// Intelligence endpoints
		&PRIntelEndpoint{},
		&CreatorHooksEndpoint{},

		// History endpoints
		&ListHistoryEndpoint{},
		&ClearHistoryEndpoint{},
		&ExportHistoryEndpoint{Now: cfg.Now},
		&ImportHistoryEndpoint{},
		&HistoryTagsEndpoint{},
		&SetHistoryTagsEndpoint{},

		// Campaign brief endpoints
		&CampaignBriefEndpoint{},
		&SaveCampaignBriefEndpoint{},
		&ShareCampaignBriefEndpoint{},

		// Prompt endpoints
		&ListPromptsEndpoint{},
		&GetPromptEndpoint{},

		// LLM call history endpoints
		&ListLLMCallsEndpoint{},
		&LLMCallStatsEndpoint{},
	}
}
