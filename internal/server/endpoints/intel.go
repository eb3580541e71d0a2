package endpoints

import (
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/presence/internal/api"
	"github.com/jackzampolin/presence/internal/studio"
)

// PRIntelEndpoint handles POST /api/sessions/{id}/pr-intel.
type PRIntelEndpoint struct{}

func (e *PRIntelEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/pr-intel", e.handler
}

func (e *PRIntelEndpoint) RequiresInit() bool { return true }
func (e *PRIntelEndpoint) Group() string      { return "intel" }

// handler godoc
//
//	@Summary		PR intelligence
//	@Description	Story angles, journalist beats, timing windows and one-line pitches for a topic.
//	@Description	Recorded in history as pr_intel.
//	@Tags			intel
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Session ID"
//	@Param			request	body		studio.PRIntelInput	false	"Topic, market and timing"
//	@Success		200		{object}	studio.IntelResult
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/pr-intel [post]
func (e *PRIntelEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	st, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	s, ok := studioFrom(w, r)
	if !ok {
		return
	}
	var in studio.PRIntelInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.PRIntel(r.Context(), st, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (e *PRIntelEndpoint) Command(getServerURL func() string) *cobra.Command {
	var in studio.PRIntelInput

	cmd := &cobra.Command{
		Use:     "pr <session-id>",
		Short:   "Suggest PR story angles, beats and timing",
		Example: `  presence api intel pr $SID --topic "Launch of RoboHub 2.0" --timing "Event-aligned"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp studio.IntelResult
			if err := client.Post(cmd.Context(), sessionPath(args[0], "pr-intel"), in, &resp); err != nil {
				return err
			}
			if api.IsStructuredOutput() {
				return api.Output(resp)
			}
			warnDegraded(resp.Diagnostic)
			return api.Output(resp.Text)
		},
	}
	cmd.Flags().StringVar(&in.Topic, "topic", "", "Product, launch or announcement")
	cmd.Flags().StringVar(&in.Market, "market", "", "Target market or region (default US + EU)")
	cmd.Flags().StringVar(&in.Timing, "timing", "", "Timing preference ("+strings.Join(studio.TimingWindows, ", ")+")")
	return cmd
}

// CreatorHooksEndpoint handles POST /api/sessions/{id}/creator-hooks.
type CreatorHooksEndpoint struct{}

func (e *CreatorHooksEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions/{id}/creator-hooks", e.handler
}

func (e *CreatorHooksEndpoint) RequiresInit() bool { return true }
func (e *CreatorHooksEndpoint) Group() string      { return "intel" }

// handler godoc
//
//	@Summary		Creator hook ideas
//	@Description	Numbered short-form video hooks with format, visual beat and closing CTA.
//	@Description	Count is clamped to 5-20. Recorded in history as creator_intel.
//	@Tags			intel
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Session ID"
//	@Param			request	body		studio.CreatorHooksInput	false	"Platform, niche, CTA and count"
//	@Success		200		{object}	studio.IntelResult
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/sessions/{id}/creator-hooks [post]
func (e *CreatorHooksEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	st, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	s, ok := studioFrom(w, r)
	if !ok {
		return
	}
	var in studio.CreatorHooksInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.CreatorHooks(r.Context(), st, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (e *CreatorHooksEndpoint) Command(getServerURL func() string) *cobra.Command {
	var in studio.CreatorHooksInput

	cmd := &cobra.Command{
		Use:   "hooks <session-id>",
		Short: "Draft creator hook ideas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp studio.IntelResult
			if err := client.Post(cmd.Context(), sessionPath(args[0], "creator-hooks"), in, &resp); err != nil {
				return err
			}
			if api.IsStructuredOutput() {
				return api.Output(resp)
			}
			warnDegraded(resp.Diagnostic)
			return api.Output(resp.Text)
		},
	}
	cmd.Flags().StringVar(&in.Platform, "platform", "", "Platform ("+strings.Join(studio.CreatorPlatforms, ", ")+")")
	cmd.Flags().StringVar(&in.Niche, "niche", "", "Niche or theme")
	cmd.Flags().StringVar(&in.CTA, "cta", "", "Desired viewer action (default Book a demo)")
	cmd.Flags().IntVar(&in.Count, "count", studio.DefaultHooks, "Number of hooks (5-20)")
	return cmd
}
